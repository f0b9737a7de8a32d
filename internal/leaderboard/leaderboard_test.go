package leaderboard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

func TestRecordSkipsBots(t *testing.T) {
	l := New()
	err := l.Record([]model.Result{
		{Player: model.Player{Name: "Ann"}, Mode: model.SinglePlayer, Outcome: model.OutcomeWin, Score: 3},
		{Player: model.Player{Name: "Chippy Bot", IsBot: true}, Mode: model.SinglePlayer, Outcome: model.OutcomeLoss},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	top := l.Top(nil, 0)
	if len(top) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(top), top)
	}
	if e := top[0]; e.PlayerName != "Ann" || e.Wins != 1 || e.Score != 3 || e.LastPlayed.IsZero() {
		t.Fatalf("entry = %+v", e)
	}
}

func TestRecordReportsRejectedResults(t *testing.T) {
	l := New()
	err := l.Record([]model.Result{
		{Player: model.Player{Name: "  "}, Mode: model.TwoPlayer, Outcome: model.OutcomeLoss},
		{Player: model.Player{Name: "Ben"}, Mode: model.TwoPlayer, Outcome: model.OutcomeWin, Score: 2},
		{Player: model.Player{Name: "Cid"}, Mode: model.GameMode("9P"), Outcome: model.OutcomeDraw},
	})
	if !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("Record: err = %v, want ErrInvalidEntry", err)
	}

	top := l.Top(nil, 0)
	if len(top) != 1 || top[0].PlayerName != "Ben" || top[0].Wins != 1 {
		t.Fatalf("valid result not recorded: %+v", top)
	}
}

func TestSubmitAggregates(t *testing.T) {
	l := New()
	for _, e := range []Entry{
		{PlayerName: "Ann", GameMode: model.TwoPlayer, Wins: 1, Score: 2},
		{PlayerName: "Ann", GameMode: model.TwoPlayer, Losses: 1, Score: -5},
		{PlayerName: "Ann", GameMode: model.SinglePlayer, Draws: 1},
	} {
		if err := l.Submit(e); err != nil {
			t.Fatalf("Submit(%+v): %v", e, err)
		}
	}

	mode := model.TwoPlayer
	top := l.Top(&mode, 10)
	if len(top) != 1 {
		t.Fatalf("got %d 2P entries, want 1", len(top))
	}
	if e := top[0]; e.Wins != 1 || e.Losses != 1 || e.Score != -3 {
		t.Fatalf("2P entry = %+v", e)
	}
	if all := l.Top(nil, 10); len(all) != 2 {
		t.Fatalf("got %d entries across modes, want 2", len(all))
	}
}

func TestSubmitRejectsInvalid(t *testing.T) {
	l := New()
	tests := []Entry{
		{PlayerName: "  ", GameMode: model.TwoPlayer},
		{PlayerName: "Ann", GameMode: "3P"},
		{PlayerName: "Ann", GameMode: model.TwoPlayer, Wins: -1},
	}
	for _, e := range tests {
		if err := l.Submit(e); !errors.Is(err, ErrInvalidEntry) {
			t.Fatalf("Submit(%+v) err = %v, want ErrInvalidEntry", e, err)
		}
	}
}

func TestTopOrderAndLimit(t *testing.T) {
	l := New()
	entries := []Entry{
		{PlayerName: "Cat", GameMode: model.TwoPlayer, Wins: 2, Score: 1},
		{PlayerName: "Ann", GameMode: model.TwoPlayer, Wins: 2, Score: 4},
		{PlayerName: "Ben", GameMode: model.TwoPlayer, Wins: 5},
	}
	for _, e := range entries {
		if err := l.Submit(e); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	top := l.Top(nil, 2)
	if len(top) != 2 || top[0].PlayerName != "Ben" || top[1].PlayerName != "Ann" {
		t.Fatalf("Top(2) = %+v, want Ben then Ann", top)
	}

	for i := 0; i < MaxLimit+20; i++ {
		_ = l.Submit(Entry{PlayerName: fmt.Sprintf("p%03d", i), GameMode: model.TwoPlayer})
	}
	if got := len(l.Top(nil, 1000)); got != MaxLimit {
		t.Fatalf("Top(1000) returned %d entries, want %d", got, MaxLimit)
	}
	if got := len(l.Top(nil, -1)); got != DefaultLimit {
		t.Fatalf("Top(-1) returned %d entries, want %d", got, DefaultLimit)
	}
}
