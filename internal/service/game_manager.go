package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/store"
	"github.com/benbeisheim/takeme-chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the manager writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// The connections watching a specific game
type GameConnections struct {
	connections map[string]*client // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*client),
	}
}

// GameManager serializes transitions per game id: a transition loads the
// snapshot, computes its replacement and saves it while holding that game's
// lock, so two actions on one game are never in flight together.
type GameManager struct {
	store       store.Store
	locks       map[string]*sync.Mutex
	locksMu     sync.Mutex
	connections map[string]*GameConnections
	connMu      sync.RWMutex
	queue       *model.Queue
	matches     map[string]string // playerID -> gameID
	matchMu     sync.Mutex
	log         *zap.Logger
}

func NewGameManager(s store.Store, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameManager{
		store:       s,
		locks:       make(map[string]*sync.Mutex),
		connections: make(map[string]*GameConnections),
		queue:       model.NewQueue(),
		matches:     make(map[string]string),
		log:         logger,
	}
}

func (gm *GameManager) lockFor(gameID string) *sync.Mutex {
	gm.locksMu.Lock()
	defer gm.locksMu.Unlock()

	mu, ok := gm.locks[gameID]
	if !ok {
		mu = &sync.Mutex{}
		gm.locks[gameID] = mu
	}
	return mu
}

func (gm *GameManager) CreateGame(state model.GameState) error {
	mu := gm.lockFor(state.ID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := gm.store.Load(state.ID); err == nil {
		return errors.New("game already exists")
	}
	return gm.store.Save(state)
}

func (gm *GameManager) GetGame(gameID string) (model.GameState, error) {
	state, err := gm.store.Load(gameID)
	if errors.Is(err, store.ErrNotFound) {
		return model.GameState{}, ErrGameNotFound
	}
	return state, err
}

// Update runs fn against the current snapshot of a game and stores what it
// returns. Nothing is stored when fn fails.
func (gm *GameManager) Update(gameID string, fn func(model.GameState) (model.GameState, error)) (model.GameState, error) {
	mu := gm.lockFor(gameID)
	mu.Lock()
	defer mu.Unlock()

	state, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	if err := gm.store.Save(next); err != nil {
		return state, fmt.Errorf("failed to save game: %w", err)
	}
	gm.broadcastState(next)
	return next, nil
}

func (gm *GameManager) DeleteGame(gameID string) (model.GameState, error) {
	mu := gm.lockFor(gameID)
	mu.Lock()
	state, err := gm.GetGame(gameID)
	if err == nil {
		err = gm.store.Delete(gameID)
	}
	mu.Unlock()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.GameState{}, ErrGameNotFound
		}
		return model.GameState{}, err
	}

	gm.locksMu.Lock()
	delete(gm.locks, gameID)
	gm.locksMu.Unlock()

	gm.connMu.Lock()
	delete(gm.connections, gameID)
	gm.connMu.Unlock()
	return state, nil
}

// RegisterConnection adds conn as playerID's connection to a game and sends it
// the current state. A player already connected keeps the existing
// connection; the new one is closed and ErrDuplicateConnection returned.
func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn Conn) error {
	state, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	gm.connMu.Lock()
	gc, ok := gm.connections[gameID]
	if !ok {
		gc = NewGameConnections()
		gm.connections[gameID] = gc
	}
	gm.connMu.Unlock()

	gc.mu.Lock()
	if _, exists := gc.connections[playerID]; exists {
		// Keep the healthy connection and reject the new one
		gc.mu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"))
		_ = conn.Close()
		return ErrDuplicateConnection
	}
	c := &client{conn: conn}
	gc.connections[playerID] = c
	gc.mu.Unlock()
	gm.log.Debug("registered connection", zap.String("game_id", gameID), zap.String("player_id", playerID))

	// Send the initial state to the new connection only
	msg, err := stateMessage(state)
	if err != nil {
		return err
	}
	if err := c.writeJSON(msg); err != nil {
		gm.UnregisterConnection(gameID, playerID, conn)
		return err
	}
	return nil
}

// UnregisterConnection removes playerID's connection only while it is still
// conn, so a stale handler cannot drop a newer connection.
func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn Conn) {
	gm.connMu.RLock()
	gc, ok := gm.connections[gameID]
	gm.connMu.RUnlock()
	if !ok {
		return
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if c, exists := gc.connections[playerID]; exists && c.conn == conn {
		delete(gc.connections, playerID)
		gm.log.Debug("unregistered connection", zap.String("game_id", gameID), zap.String("player_id", playerID))
	}
}

// SendTo writes a message to one player's connection on a game.
func (gm *GameManager) SendTo(gameID string, playerID string, msg ws.Message) error {
	gm.connMu.RLock()
	gc, ok := gm.connections[gameID]
	gm.connMu.RUnlock()
	if !ok {
		return errors.New("no connections for game")
	}
	gc.mu.RLock()
	c, ok := gc.connections[playerID]
	gc.mu.RUnlock()
	if !ok {
		return errors.New("player not connected")
	}
	return c.writeJSON(msg)
}

func (gm *GameManager) broadcastState(state model.GameState) {
	gm.connMu.RLock()
	gc, ok := gm.connections[state.ID]
	gm.connMu.RUnlock()
	if !ok {
		return
	}

	msg, err := stateMessage(state)
	if err != nil {
		gm.log.Warn("failed to marshal state", zap.String("game_id", state.ID), zap.Error(err))
		return
	}

	// Snapshot the connections so no lock is held while writing
	gc.mu.RLock()
	active := make(map[string]*client, len(gc.connections))
	for playerID, c := range gc.connections {
		active[playerID] = c
	}
	gc.mu.RUnlock()

	for playerID, c := range active {
		if err := c.writeJSON(msg); err != nil {
			gm.log.Warn("failed to send state", zap.String("game_id", state.ID), zap.String("player_id", playerID), zap.Error(err))
			gm.UnregisterConnection(state.ID, playerID, c.conn)
		}
	}
}

func stateMessage(state model.GameState) (ws.Message, error) {
	return ws.NewMessage(ws.MessageTypeGameState, NewGameView(state))
}

func (gm *GameManager) JoinQueue(player model.QueuedPlayer) error {
	gm.matchMu.Lock()
	_, matched := gm.matches[player.PlayerID]
	if matched {
		delete(gm.matches, player.PlayerID)
	}
	gm.matchMu.Unlock()
	return gm.queue.AddPlayer(player)
}

func (gm *GameManager) LeaveQueue(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) nextPair() (model.QueuedPlayer, model.QueuedPlayer, bool) {
	return gm.queue.NextPair()
}

func (gm *GameManager) recordMatch(gameID string, playerIDs ...string) {
	gm.matchMu.Lock()
	defer gm.matchMu.Unlock()
	for _, id := range playerIDs {
		gm.matches[id] = gameID
	}
}

// MatchStatus reports the game a player was paired into, or whether it is
// still waiting.
func (gm *GameManager) MatchStatus(playerID string) (gameID string, queued bool) {
	gm.matchMu.Lock()
	gameID = gm.matches[playerID]
	gm.matchMu.Unlock()
	return gameID, gm.queue.Contains(playerID)
}
