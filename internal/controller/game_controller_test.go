package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbeisheim/takeme-chess-backend/internal/bot"
	"github.com/benbeisheim/takeme-chess-backend/internal/leaderboard"
	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/service"
	"github.com/benbeisheim/takeme-chess-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

func newTestApp() (*fiber.App, *service.GameService) {
	gs := service.NewGameService(
		service.NewGameManager(store.NewMemory(), nil),
		bot.NewSeededStrategy(1),
		leaderboard.New(),
		nil,
	)
	app := fiber.New()
	app.Get("/health", Health)
	NewGameController(gs).Register(app.Group("/api"))
	return app, gs
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func createTwoPlayer(t *testing.T, app *fiber.App) service.GameView {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/games", service.CreateGameRequest{
		GameMode: model.TwoPlayer,
		Players:  []model.PlayerSpec{{Name: "Ann"}, {Name: "Ben"}},
	}, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d: %s", status, body)
	}
	var view service.GameView
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	return view
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp()
	if status, body := do(t, app, http.MethodGet, "/health", nil, nil); status != fiber.StatusOK {
		t.Fatalf("health = %d: %s", status, body)
	}
}

func TestGameRoutes(t *testing.T) {
	app, _ := newTestApp()
	game := createTwoPlayer(t, app)

	if game.FEN != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("fen = %q", game.FEN)
	}

	base := "/api/games/" + game.ID
	e2e4 := model.MoveRequest{From: model.Square{Row: 6, Col: 4}, To: model.Square{Row: 4, Col: 4}}

	status, body := do(t, app, http.MethodPost, base+"/moves/validate", e2e4, nil)
	if status != fiber.StatusOK {
		t.Fatalf("validate = %d: %s", status, body)
	}
	var v model.Validation
	if err := json.Unmarshal(body, &v); err != nil || !v.Valid {
		t.Fatalf("validation = %+v (%v)", v, err)
	}

	status, body = do(t, app, http.MethodPost, base+"/moves", e2e4, nil)
	if status != fiber.StatusOK {
		t.Fatalf("move = %d: %s", status, body)
	}
	var after service.GameView
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("decode move response: %v", err)
	}
	if after.CurrentTurn != model.Black || len(after.MoveHistory) != 1 {
		t.Fatalf("after e4: turn %s, %d plies", after.CurrentTurn, len(after.MoveHistory))
	}

	// Same move again: the pawn is gone from e2
	if status, body := do(t, app, http.MethodPost, base+"/moves", e2e4, nil); status != fiber.StatusBadRequest {
		t.Fatalf("replayed move = %d: %s", status, body)
	}
	// White piece on black's turn
	d2d4 := model.MoveRequest{From: model.Square{Row: 6, Col: 3}, To: model.Square{Row: 4, Col: 3}}
	if status, body := do(t, app, http.MethodPost, base+"/moves", d2d4, nil); status != fiber.StatusForbidden {
		t.Fatalf("wrong turn = %d: %s", status, body)
	}
	if status, body := do(t, app, http.MethodPost, base+"/bot-move", nil, nil); status != fiber.StatusForbidden {
		t.Fatalf("bot move without bot = %d: %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, base+"/legal-moves?row=1&col=4", nil, nil)
	if status != fiber.StatusOK {
		t.Fatalf("legal moves = %d: %s", status, body)
	}
	var legal struct {
		LegalMoves []model.Square `json:"legal_moves"`
	}
	if err := json.Unmarshal(body, &legal); err != nil || len(legal.LegalMoves) != 2 {
		t.Fatalf("legal moves = %+v (%v)", legal, err)
	}
	if status, _ := do(t, app, http.MethodGet, base+"/legal-moves", nil, nil); status != fiber.StatusBadRequest {
		t.Fatalf("legal moves without a square = %d", status)
	}

	e7e5 := model.MoveRequest{From: model.Square{Row: 1, Col: 4}, To: model.Square{Row: 3, Col: 4}}
	status, body = do(t, app, http.MethodPost, base+"/take-me", e7e5, nil)
	if status != fiber.StatusOK {
		t.Fatalf("take-me = %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("decode take-me response: %v", err)
	}
	if after.Message == nil || *after.Message != "take who??" {
		t.Fatalf("void declaration message = %v", after.Message)
	}

	if status, _ := do(t, app, http.MethodDelete, base, nil, nil); status != fiber.StatusOK {
		t.Fatalf("end game = %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, base, nil, nil); status != fiber.StatusNotFound {
		t.Fatalf("deleted game = %d, want 404", status)
	}
}

func TestCreateGameRejectsBadRequests(t *testing.T) {
	app, _ := newTestApp()

	status, _ := do(t, app, http.MethodPost, "/api/games", service.CreateGameRequest{
		GameMode: model.SinglePlayer,
		Players:  []model.PlayerSpec{{Name: "Ann"}, {Name: "Ben"}},
	}, nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("1P without bot = %d, want 400", status)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/games", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("malformed body: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("malformed body = %d, want 400", resp.StatusCode)
	}
}

func TestLeaderboardRoutes(t *testing.T) {
	app, _ := newTestApp()

	entry := leaderboard.Entry{PlayerName: "Ann", GameMode: model.TwoPlayer, Wins: 2, Score: 3}
	if status, body := do(t, app, http.MethodPost, "/api/leaderboard", entry, nil); status != fiber.StatusCreated {
		t.Fatalf("submit = %d: %s", status, body)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/leaderboard", leaderboard.Entry{GameMode: model.TwoPlayer}, nil); status != fiber.StatusBadRequest {
		t.Fatalf("nameless submit = %d, want 400", status)
	}

	status, body := do(t, app, http.MethodGet, "/api/leaderboard?game_mode=2P&limit=5", nil, nil)
	if status != fiber.StatusOK {
		t.Fatalf("leaderboard = %d: %s", status, body)
	}
	var resp struct {
		Entries []leaderboard.Entry `json:"entries"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Entries) != 1 || resp.Entries[0].Wins != 2 {
		t.Fatalf("leaderboard = %+v (%v)", resp, err)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/leaderboard?game_mode=9P", nil, nil); status != fiber.StatusBadRequest {
		t.Fatalf("unknown mode = %d, want 400", status)
	}
}

func TestMatchmakingRoutes(t *testing.T) {
	app, gs := newTestApp()

	if status, _ := do(t, app, http.MethodPost, "/api/matchmaking/join", nil, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("join without player id = %d, want 401", status)
	}

	p1 := map[string]string{"X-Player-ID": "p1"}
	p2 := map[string]string{"X-Player-ID": "p2"}
	if status, body := do(t, app, http.MethodPost, "/api/matchmaking/join", map[string]string{"name": "Ann"}, p1); status != fiber.StatusOK {
		t.Fatalf("join p1 = %d: %s", status, body)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/matchmaking/join", nil, p1); status != fiber.StatusBadRequest {
		t.Fatalf("second join = %d, want 400", status)
	}
	if status, body := do(t, app, http.MethodPost, "/api/matchmaking/join", nil, p2); status != fiber.StatusOK {
		t.Fatalf("join p2 = %d: %s", status, body)
	}

	state, created, err := gs.PairPlayers()
	if err != nil || !created {
		t.Fatalf("PairPlayers = %v, %v", created, err)
	}

	_, body := do(t, app, http.MethodGet, "/api/matchmaking/status", nil, p2)
	var status struct {
		Status string `json:"status"`
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "matched" || status.GameID != state.ID {
		t.Fatalf("status = %+v, want matched into %s", status, state.ID)
	}

	if code, _ := do(t, app, http.MethodPost, "/api/matchmaking/leave", nil, p1); code != fiber.StatusNotFound {
		t.Fatalf("leave after match = %d, want 404", code)
	}
}

func TestQueuedPlayerSurvivesLaterRequests(t *testing.T) {
	app, gs := newTestApp()

	if status, body := do(t, app, http.MethodPost, "/api/matchmaking/join", nil, map[string]string{"X-Player-ID": "p1"}); status != fiber.StatusOK {
		t.Fatalf("join p1 = %d: %s", status, body)
	}
	// A different player only asks for its status
	do(t, app, http.MethodGet, "/api/matchmaking/status", nil, map[string]string{"X-Player-ID": "zz"})
	do(t, app, http.MethodGet, "/api/matchmaking/status?playerId=yy", nil, nil)

	if _, queued := gs.MatchStatus("p1"); !queued {
		t.Fatalf("p1 dropped out of the queue after another player's request")
	}
	if _, queued := gs.MatchStatus("zz"); queued {
		t.Fatalf("zz is queued without joining")
	}
}

func TestGameIDSurvivesLaterRequests(t *testing.T) {
	app, gs := newTestApp()
	game := createTwoPlayer(t, app)
	other := createTwoPlayer(t, app)

	e2e4 := model.MoveRequest{From: model.Square{Row: 6, Col: 4}, To: model.Square{Row: 4, Col: 4}}
	if status, body := do(t, app, http.MethodPost, "/api/games/"+game.ID+"/moves", e2e4, nil); status != fiber.StatusOK {
		t.Fatalf("move = %d: %s", status, body)
	}
	if status, body := do(t, app, http.MethodGet, "/api/games/"+other.ID, nil, nil); status != fiber.StatusOK {
		t.Fatalf("get other = %d: %s", status, body)
	}

	// The first game is still reachable and updatable under its own id
	state, err := gs.GetGame(game.ID)
	if err != nil || len(state.MoveHistory) != 1 {
		t.Fatalf("GetGame(%s) = %d plies, %v", game.ID, len(state.MoveHistory), err)
	}
	e7e5 := model.MoveRequest{From: model.Square{Row: 1, Col: 4}, To: model.Square{Row: 3, Col: 4}}
	if _, err := gs.MakeMove(game.ID, e7e5); err != nil {
		t.Fatalf("MakeMove after other requests: %v", err)
	}
}
