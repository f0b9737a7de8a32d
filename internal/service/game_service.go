package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/takeme-chess-backend/internal/bot"
	"github.com/benbeisheim/takeme-chess-backend/internal/leaderboard"
	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/rules"
	"github.com/benbeisheim/takeme-chess-backend/internal/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrNotBotTurn     = errors.New("not bot's turn")
	ErrInvalidPlayers = errors.New("invalid players")
	ErrAlreadyQueued  = model.ErrAlreadyQueued

	ErrDuplicateConnection = errors.New("connection already exists")
)

// GameView is a GameState as sent to clients, with the board's FEN layout.
type GameView struct {
	model.GameState
	FEN string `json:"fen"`
}

func NewGameView(state model.GameState) GameView {
	return GameView{GameState: state, FEN: state.Board.FEN()}
}

type CreateGameRequest struct {
	GameMode model.GameMode     `json:"game_mode"`
	Players  []model.PlayerSpec `json:"players"`
}

type GameService struct {
	gameManager *GameManager
	bot         *bot.Strategy
	leaderboard *leaderboard.Leaderboard
	log         *zap.Logger
	now         func() time.Time
}

func NewGameService(gameManager *GameManager, strategy *bot.Strategy, board *leaderboard.Leaderboard, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{
		gameManager: gameManager,
		bot:         strategy,
		leaderboard: board,
		log:         logger,
		now:         time.Now,
	}
}

func (gs *GameService) CreateGame(req CreateGameRequest) (model.GameState, error) {
	if !req.GameMode.Valid() {
		return model.GameState{}, fmt.Errorf("%w: unknown game mode %q", ErrInvalidPlayers, req.GameMode)
	}
	if len(req.Players) != 2 {
		return model.GameState{}, fmt.Errorf("%w: exactly two players are required", ErrInvalidPlayers)
	}
	bots := 0
	for _, p := range req.Players {
		if p.IsBot {
			bots++
		}
	}
	switch req.GameMode {
	case model.SinglePlayer:
		if bots != 1 {
			return model.GameState{}, fmt.Errorf("%w: a single player game needs exactly one bot", ErrInvalidPlayers)
		}
	case model.TwoPlayer:
		if bots != 0 {
			return model.GameState{}, fmt.Errorf("%w: a two player game has no bots", ErrInvalidPlayers)
		}
	}

	white, err := gs.newPlayer(req.Players[0])
	if err != nil {
		return model.GameState{}, err
	}
	black, err := gs.newPlayer(req.Players[1])
	if err != nil {
		return model.GameState{}, err
	}
	return gs.startGame(req.GameMode, white, black)
}

func (gs *GameService) newPlayer(spec model.PlayerSpec) (model.Player, error) {
	name := strings.TrimSpace(spec.Name)
	p := model.Player{ID: uuid.NewString(), Name: name, IsBot: spec.IsBot}
	if spec.IsBot {
		if p.Name == "" {
			p.Name = gs.bot.Name()
		}
		p.Avatar = gs.bot.Avatar()
	}
	if p.Name == "" || len(p.Name) > model.MaxPlayerNameLength {
		return model.Player{}, fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidPlayers, model.MaxPlayerNameLength)
	}
	return p, nil
}

func (gs *GameService) startGame(mode model.GameMode, white, black model.Player) (model.GameState, error) {
	state := model.NewGameState(uuid.NewString(), mode, white, black, gs.now())
	if err := gs.gameManager.CreateGame(state); err != nil {
		return model.GameState{}, fmt.Errorf("failed to create game: %w", err)
	}
	gs.log.Info("game created",
		zap.String("game_id", state.ID),
		zap.String("game_mode", string(mode)),
		zap.String("white", white.Name),
		zap.String("black", black.Name))
	return state, nil
}

func (gs *GameService) GetGame(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGame(gameID)
}

// EndGame deletes a game and returns its final state.
func (gs *GameService) EndGame(gameID string) (model.GameState, error) {
	return gs.gameManager.DeleteGame(gameID)
}

// MakeMove plays a plain move. In a single player game the bot's reply is
// applied in the same call.
func (gs *GameService) MakeMove(gameID string, req model.MoveRequest) (model.GameState, error) {
	state, err := gs.gameManager.Update(gameID, func(state model.GameState) (model.GameState, error) {
		next, err := rules.ApplyMove(state, req)
		if err != nil {
			return state, err
		}
		next.UpdatedAt = gs.now()
		gs.afterTransition(next)
		return gs.botReply(next), nil
	})
	if err != nil {
		return state, err
	}
	gs.finish(state)
	return state, nil
}

// DeclareTakeMe plays a move with a Take-Me declaration. In a single player
// game the bot's reply is applied in the same call.
func (gs *GameService) DeclareTakeMe(gameID string, req model.MoveRequest) (model.GameState, error) {
	state, err := gs.gameManager.Update(gameID, func(state model.GameState) (model.GameState, error) {
		next, err := rules.DeclareTakeMe(state, req)
		if err != nil {
			return state, err
		}
		next.UpdatedAt = gs.now()
		gs.afterTransition(next)
		return gs.botReply(next), nil
	})
	if err != nil {
		return state, err
	}
	gs.finish(state)
	return state, nil
}

// BotMove asks the bot to play the side to move. The returned BotMove is
// nil when the bot had no move, which ends the game in a draw.
func (gs *GameService) BotMove(gameID string) (model.GameState, *model.BotMove, error) {
	var played *model.BotMove
	state, err := gs.gameManager.Update(gameID, func(state model.GameState) (model.GameState, error) {
		if state.Status != model.StatusActive {
			return state, rules.ErrGameNotActive
		}
		if !state.BotToMove() {
			return state, ErrNotBotTurn
		}
		next, bm, err := gs.playBot(state)
		if err != nil {
			return state, err
		}
		played = bm
		return next, nil
	})
	if err != nil {
		return model.GameState{}, nil, err
	}
	gs.finish(state)
	return state, played, nil
}

func (gs *GameService) botReply(state model.GameState) model.GameState {
	if state.Status != model.StatusActive || !state.BotToMove() {
		return state
	}
	next, _, err := gs.playBot(state)
	if err != nil {
		gs.log.Warn("bot reply failed", zap.String("game_id", state.ID), zap.Error(err))
		return state
	}
	return next
}

func (gs *GameService) playBot(state model.GameState) (model.GameState, *model.BotMove, error) {
	bm, ok := gs.bot.ComputeMove(state)
	if !ok {
		next := state
		next.Status = model.StatusDraw
		next.Winner = nil
		next.UpdatedAt = gs.now()
		gs.afterTransition(next)
		return next, nil, nil
	}
	next, err := rules.Play(state, bm)
	if err != nil {
		return state, nil, fmt.Errorf("bot move %s rejected: %w", bm.Move.Notation, err)
	}
	next.UpdatedAt = gs.now()
	gs.afterTransition(next)
	return next, &bm, nil
}

// afterTransition logs a transition while the game lock is held.
func (gs *GameService) afterTransition(state model.GameState) {
	last := ""
	if n := len(state.MoveHistory); n > 0 {
		last = state.MoveHistory[n-1].Notation
	}
	gs.log.Debug("transition",
		zap.String("game_id", state.ID),
		zap.String("move", last),
		zap.String("status", string(state.Status)),
		zap.Bool("must_capture", state.TakeMe.MustCapture))

	if state.Message != nil {
		gs.log.Info("void take-me declaration",
			zap.String("game_id", state.ID),
			zap.String("message", *state.Message))
	}
}

// finish reports a finished game to the leaderboard. Callers run it only once
// the transition is stored.
func (gs *GameService) finish(state model.GameState) {
	if !state.Status.Terminal() {
		return
	}
	winner := ""
	if state.Winner != nil {
		winner = state.Winner.Name
	}
	gs.log.Info("game over",
		zap.String("game_id", state.ID),
		zap.String("status", string(state.Status)),
		zap.String("winner", winner),
		zap.Int("plies", len(state.MoveHistory)))
	if ce := gs.log.Check(zap.DebugLevel, "final position"); ce != nil {
		ce.Write(zap.String("game_id", state.ID), zap.String("board", state.Board.Draw()))
	}
	if gs.leaderboard == nil {
		return
	}
	if err := gs.leaderboard.Record(rules.Results(state)); err != nil {
		gs.log.Warn("failed to record results", zap.String("game_id", state.ID), zap.Error(err))
	}
}

func (gs *GameService) ValidateMove(gameID string, req model.MoveRequest) (model.Validation, error) {
	state, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Validation{}, err
	}
	return rules.Validate(state, req.From, req.To), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Square) ([]model.Square, error) {
	if !from.Valid() {
		return nil, rules.ErrInvalidSquare
	}
	state, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return rules.MovesFrom(state, from), nil
}

func (gs *GameService) Leaderboard(mode *model.GameMode, limit int) []leaderboard.Entry {
	return gs.leaderboard.Top(mode, limit)
}

func (gs *GameService) SubmitResult(entry leaderboard.Entry) error {
	return gs.leaderboard.Submit(entry)
}

func (gs *GameService) JoinMatchmaking(playerID string, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	if len(name) > model.MaxPlayerNameLength {
		return fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidPlayers, model.MaxPlayerNameLength)
	}
	return gs.gameManager.JoinQueue(model.QueuedPlayer{PlayerID: playerID, Name: name, JoinedAt: gs.now()})
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveQueue(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (string, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

// PairPlayers starts a two player game for the two longest waiting players.
// It reports whether a game was created.
func (gs *GameService) PairPlayers() (model.GameState, bool, error) {
	first, second, ok := gs.gameManager.nextPair()
	if !ok {
		return model.GameState{}, false, nil
	}
	white := model.Player{ID: first.PlayerID, Name: first.Name}
	black := model.Player{ID: second.PlayerID, Name: second.Name}
	state, err := gs.startGame(model.TwoPlayer, white, black)
	if err != nil {
		return model.GameState{}, false, err
	}
	gs.gameManager.recordMatch(state.ID, first.PlayerID, second.PlayerID)
	return state, true, nil
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gs *GameService) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				_, created, err := gs.PairPlayers()
				if err != nil {
					gs.log.Warn("matchmaking failed", zap.Error(err))
					break
				}
				if !created {
					break
				}
			}
		}
	}
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendState writes the current state of a game to one player's connection.
func (gs *GameService) SendState(gameID string, playerID string) error {
	state, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	msg, err := stateMessage(state)
	if err != nil {
		return err
	}
	return gs.gameManager.SendTo(gameID, playerID, msg)
}

func (gs *GameService) SendError(gameID string, playerID string, errorMsg string) error {
	return gs.gameManager.SendTo(gameID, playerID, ws.ErrorMessage(errorMsg))
}
