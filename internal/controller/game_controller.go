package controller

import (
	"errors"

	"github.com/benbeisheim/takeme-chess-backend/internal/leaderboard"
	"github.com/benbeisheim/takeme-chess-backend/internal/middleware"
	"github.com/benbeisheim/takeme-chess-backend/internal/model"
	"github.com/benbeisheim/takeme-chess-backend/internal/rules"
	"github.com/benbeisheim/takeme-chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the REST routes on r.
func (gc *GameController) Register(r fiber.Router) {
	games := r.Group("/games")
	games.Post("", gc.CreateGame)
	games.Get("/:gameId", gc.GetGameState)
	games.Delete("/:gameId", gc.EndGame)
	games.Post("/:gameId/moves", gc.MakeMove)
	games.Post("/:gameId/moves/validate", gc.ValidateMove)
	games.Post("/:gameId/take-me", gc.DeclareTakeMe)
	games.Post("/:gameId/bot-move", gc.BotMove)
	games.Get("/:gameId/legal-moves", gc.LegalMoves)

	r.Get("/leaderboard", gc.GetLeaderboard)
	r.Post("/leaderboard", gc.SubmitResult)

	mm := r.Group("/matchmaking", middleware.EnsurePlayerID())
	mm.Post("/join", gc.JoinMatchmaking)
	mm.Get("/status", gc.MatchStatus)
	mm.Post("/leave", gc.LeaveMatchmaking)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, rules.ErrWrongTurnOwner), errors.Is(err, service.ErrNotBotTurn):
		return fiber.StatusForbidden
	case errors.Is(err, rules.ErrInvalidSquare),
		errors.Is(err, rules.ErrNoPieceAtSquare),
		errors.Is(err, rules.ErrIllegalDestination),
		errors.Is(err, rules.ErrGameNotActive),
		errors.Is(err, rules.ErrInvalidPromotion),
		errors.Is(err, service.ErrInvalidPlayers),
		errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, leaderboard.ErrInvalidEntry):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// gameID copies the route parameter out of the request buffer; the manager
// keeps game ids as lock keys past the end of the request.
func gameID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("gameId"))
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	state, err := gc.gameService.CreateGame(req)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service.NewGameView(state))
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGame(gameID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(service.NewGameView(state))
}

func (gc *GameController) EndGame(c *fiber.Ctx) error {
	state, err := gc.gameService.EndGame(gameID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":     "Game ended",
		"final_state": service.NewGameView(state),
	})
}

func parseMove(c *fiber.Ctx) (model.MoveRequest, bool) {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return model.MoveRequest{}, false
	}
	return req, true
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	req, ok := parseMove(c)
	if !ok {
		return badRequest(c, "invalid move body")
	}
	state, err := gc.gameService.MakeMove(gameID(c), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(service.NewGameView(state))
}

func (gc *GameController) DeclareTakeMe(c *fiber.Ctx) error {
	req, ok := parseMove(c)
	if !ok {
		return badRequest(c, "invalid move body")
	}
	state, err := gc.gameService.DeclareTakeMe(gameID(c), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(service.NewGameView(state))
}

func (gc *GameController) ValidateMove(c *fiber.Ctx) error {
	req, ok := parseMove(c)
	if !ok {
		return badRequest(c, "invalid move body")
	}
	v, err := gc.gameService.ValidateMove(gameID(c), req)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(v)
}

func (gc *GameController) BotMove(c *fiber.Ctx) error {
	state, bm, err := gc.gameService.BotMove(gameID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"gameState": service.NewGameView(state),
		"botMove":   bm,
	})
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := model.Square{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	moves, err := gc.gameService.LegalMoves(gameID(c), from)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"from":        from,
		"legal_moves": moves,
	})
}

func (gc *GameController) GetLeaderboard(c *fiber.Ctx) error {
	var mode *model.GameMode
	if m := model.GameMode(c.Query("game_mode")); m != "" {
		if !m.Valid() {
			return badRequest(c, "unknown game mode")
		}
		mode = &m
	}
	entries := gc.gameService.Leaderboard(mode, c.QueryInt("limit", leaderboard.DefaultLimit))
	return c.JSON(fiber.Map{
		"entries": entries,
	})
}

func (gc *GameController) SubmitResult(c *fiber.Ctx) error {
	var entry leaderboard.Entry
	if err := c.BodyParser(&entry); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := gc.gameService.SubmitResult(entry); err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Result recorded",
	})
}

type joinRequest struct {
	Name string `json:"name"`
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	var req joinRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c), req.Name); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchStatus(c *fiber.Ctx) error {
	matched, queued := gc.gameService.MatchStatus(middleware.PlayerID(c))
	switch {
	case matched != "":
		return c.JSON(fiber.Map{
			"status":  "matched",
			"game_id": matched,
		})
	case queued:
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	default:
		return c.JSON(fiber.Map{
			"status": "idle",
		})
	}
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
