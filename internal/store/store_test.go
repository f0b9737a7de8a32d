package store

import (
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	state := model.NewGameState("g1", model.TwoPlayer, model.Player{Name: "Ann"}, model.Player{Name: "Ben"}, time.Now())

	if _, err := m.Load("g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load before Save: err = %v, want ErrNotFound", err)
	}
	if err := m.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := m.Load("g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != "g1" || got.Players[0].Name != "Ann" {
		t.Fatalf("loaded %+v", got)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}

	if err := m.Delete("g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete("g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRejectsMissingID(t *testing.T) {
	if err := NewMemory().Save(model.GameState{}); err == nil {
		t.Fatalf("Save without an id should fail")
	}
}
