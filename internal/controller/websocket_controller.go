package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/takeme-chess-backend/internal/middleware"
	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/service"
	"github.com/benbeisheim/takeme-chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		log:         logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals(middleware.WSGameIDKey).(string)
	playerID, _ := c.Locals(middleware.WSPlayerIDKey).(string)
	log := wsc.log.With(zap.String("game_id", gameID), zap.String("player_id", playerID))

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		if errors.Is(err, service.ErrDuplicateConnection) {
			// Already closed; the player's first connection stays registered
			log.Info("rejected duplicate connection")
			return
		}
		log.Warn("failed to register connection", zap.Error(err))
		_ = c.WriteJSON(ws.ErrorMessage(err.Error()))
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("connection closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, playerID, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debug("message rejected", zap.String("type", string(msg.Type)), zap.Error(err))
			wsc.sendError(gameID, playerID, err.Error())
		}
	}
}

// Accepted transitions reach the client through the manager's broadcast, so
// the handlers only report failures.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove, ws.MessageTypeTakeMe:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		var err error
		if msg.Type == ws.MessageTypeTakeMe {
			_, err = wsc.gameService.DeclareTakeMe(gameID, req)
		} else {
			_, err = wsc.gameService.MakeMove(gameID, req)
		}
		return err

	case ws.MessageTypeBotMove:
		_, _, err := wsc.gameService.BotMove(gameID)
		return err

	case ws.MessageTypeGetState:
		return wsc.gameService.SendState(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID, playerID, errorMsg string) {
	// Routed through the manager so the write is serialized with broadcasts
	if err := wsc.gameService.SendError(gameID, playerID, errorMsg); err != nil {
		wsc.log.Warn("failed to send error", zap.String("game_id", gameID), zap.Error(err))
	}
}
