package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"chesskit/chess"
	"chesskit/internal/service"
	"chesskit/render"
	"chesskit/uci"
)

type GameController struct {
	manager *service.GameManager
	engine  *uci.Engine // nil when the server runs without an engine
}

func NewGameController(manager *service.GameManager, engine *uci.Engine) *GameController {
	return &GameController{manager: manager, engine: engine}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "malformed request body")
		}
	}
	game, err := gc.manager.Create(req.FEN)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(game.State())
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	game, err := gc.manager.Get(c.Params("gameId"))
	if err != nil {
		return notFound(c)
	}
	return c.JSON(game.State())
}

type moveRequest struct {
	Move string `json:"move"`
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	game, err := gc.manager.Get(c.Params("gameId"))
	if err != nil {
		return notFound(c)
	}
	var req moveRequest
	if err := c.BodyParser(&req); err != nil || req.Move == "" {
		return badRequest(c, "missing move")
	}
	state, err := game.MakeMove(req.Move)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(state)
}

func (gc *GameController) RenderBoard(c *fiber.Ctx) error {
	game, err := gc.manager.Get(c.Params("gameId"))
	if err != nil {
		return notFound(c)
	}
	opts := render.Options{
		Flip:   c.QueryBool("flip"),
		Coords: true,
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(render.SVG(game.Board(), opts))
}

type analyzeRequest struct {
	FEN         string `json:"fen"`
	MoveTimeMs  int    `json:"moveTimeMs"`
	SearchDepth int    `json:"searchDepth"`
	EvalDepth   int    `json:"evalDepth"`
	EloLimit    int    `json:"eloLimit"`
	SkillLevel  *int   `json:"skillLevel"`
}

func (gc *GameController) Analyze(c *fiber.Ctx) error {
	if gc.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no analysis engine configured",
		})
	}
	var body analyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed request body")
	}

	req := uci.NewRequest(body.FEN)
	req.MoveTimeMs = body.MoveTimeMs
	req.SearchDepth = body.SearchDepth
	req.EvalDepth = body.EvalDepth
	req.EloLimit = body.EloLimit
	if body.SkillLevel != nil {
		req.SkillLevel = *body.SkillLevel
	}

	res, err := gc.engine.Analyze(c.Context(), req)
	switch {
	case err == nil:
		return c.JSON(res)
	case errors.Is(err, chess.ErrParse), errors.Is(err, chess.ErrInvalidPosition):
		return badRequest(c, err.Error())
	case errors.Is(err, uci.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, uci.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": service.ErrGameNotFound.Error()})
}
