package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/takeme-chess-backend/internal/bot"
	"github.com/benbeisheim/takeme-chess-backend/internal/config"
	"github.com/benbeisheim/takeme-chess-backend/internal/controller"
	"github.com/benbeisheim/takeme-chess-backend/internal/leaderboard"
	"github.com/benbeisheim/takeme-chess-backend/internal/middleware"
	"github.com/benbeisheim/takeme-chess-backend/internal/service"
	"github.com/benbeisheim/takeme-chess-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := newLogger(cfg.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(store.NewMemory(), log)
	gameService := service.NewGameService(
		gameManager,
		bot.NewSeededStrategy(cfg.Seed()),
		leaderboard.New(),
		log,
	)
	go gameService.RunMatchmaking(ctx, cfg.MatchInterval)

	app := newApp(cfg, gameService, log)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newApp(cfg config.Config, gameService *service.GameService, log *zap.Logger) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService, log)

	app.Get("/health", controller.Health)

	// Set up WebSocket routes
	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         splitOrigins(cfg.AllowOrigins),
		}))

	// Set up REST routes
	gameController.Register(app.Group("/api"))
	return app
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
