package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrInvalidEntry = errors.New("invalid leaderboard entry")

type Entry struct {
	PlayerName string         `json:"player_name"`
	Wins       int            `json:"wins"`
	Losses     int            `json:"losses"`
	Draws      int            `json:"draws"`
	Score      int            `json:"score"`
	GameMode   model.GameMode `json:"game_mode"`
	LastPlayed time.Time      `json:"last_played"`
}

type key struct {
	name string
	mode model.GameMode
}

// Leaderboard aggregates finished-game results per player name and mode.
type Leaderboard struct {
	entries map[key]*Entry
	mu      sync.RWMutex
	now     func() time.Time
}

func New() *Leaderboard {
	return &Leaderboard{
		entries: make(map[key]*Entry),
		now:     time.Now,
	}
}

// Record folds the results of one game into the board. Bot seats are
// skipped. Results that fail validation are reported together; the valid
// ones are still recorded.
func (l *Leaderboard) Record(results []model.Result) error {
	var errs []error
	for _, r := range results {
		if r.Player.IsBot {
			continue
		}
		e := Entry{PlayerName: r.Player.Name, GameMode: r.Mode, Score: r.Score}
		switch r.Outcome {
		case model.OutcomeWin:
			e.Wins = 1
		case model.OutcomeLoss:
			e.Losses = 1
		case model.OutcomeDraw:
			e.Draws = 1
		}
		if err := l.Submit(e); err != nil {
			errs = append(errs, fmt.Errorf("record %q (%s): %w", r.Player.Name, r.Mode, err))
		}
	}
	return errors.Join(errs...)
}

// Submit merges e into the entry for its player and mode.
func (l *Leaderboard) Submit(e Entry) error {
	name := strings.TrimSpace(e.PlayerName)
	if name == "" || !e.GameMode.Valid() || e.Wins < 0 || e.Losses < 0 || e.Draws < 0 {
		return ErrInvalidEntry
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{name: name, mode: e.GameMode}
	cur, ok := l.entries[k]
	if !ok {
		cur = &Entry{PlayerName: name, GameMode: e.GameMode}
		l.entries[k] = cur
	}
	cur.Wins += e.Wins
	cur.Losses += e.Losses
	cur.Draws += e.Draws
	cur.Score += e.Score
	cur.LastPlayed = l.now()
	return nil
}

// Top returns up to limit entries ordered by wins, then score. A nil mode
// includes every mode.
func (l *Leaderboard) Top(mode *model.GameMode, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	l.mu.RLock()
	out := make([]Entry, 0, len(l.entries))
	for k, e := range l.entries {
		if mode != nil && k.mode != *mode {
			continue
		}
		out = append(out, *e)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
