package main

import (
	"context"
	"flag"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"chesskit/internal/controller"
	"chesskit/internal/service"
	"chesskit/uci"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	enginePath := flag.String("engine", "", "path to a UCI engine binary (analysis disabled when empty)")
	engineThreads := flag.Int("engine-threads", 1, "engine thread count")
	engineHash := flag.Int("engine-hash", 64, "engine hash size in MB")
	origins := flag.String("origins", "*", "allowed CORS origins")
	flag.Parse()

	var engine *uci.Engine
	if *enginePath != "" {
		engine = uci.NewEngine(uci.Config{
			Path:    *enginePath,
			Threads: *engineThreads,
			Hash:    *engineHash,
		})
		if err := engine.Start(); err != nil {
			log.Fatalf("starting engine: %v", err)
		}
		if err := engine.Initialize(context.Background()); err != nil {
			log.Printf("engine handshake failed, analysis may misbehave: %v", err)
		}
		defer engine.Stop()
	}

	manager := service.NewGameManager()
	gameController := controller.NewGameController(manager, engine)
	wsController := controller.NewWebSocketController(manager)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: *origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/ws/game/:gameId", websocket.New(wsController.HandleConnection))

	api := app.Group("/api")
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Get("/:gameId/board.svg", gameController.RenderBoard)
	api.Post("/analyze", gameController.Analyze)

	log.Fatal(app.Listen(*addr))
}
