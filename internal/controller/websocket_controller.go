package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"chesskit/internal/service"
	"chesskit/internal/ws"
)

type WebSocketController struct {
	manager *service.GameManager
}

func NewWebSocketController(manager *service.GameManager) *WebSocketController {
	return &WebSocketController{manager: manager}
}

// HandleConnection subscribes the connection to its game's state feed and
// processes move messages until the peer disconnects.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	game, err := wsc.manager.Get(gameID)
	if err != nil {
		sendError(c, err.Error())
		c.Close()
		return
	}

	connID := uuid.New().String()
	game.Subscribe(connID, c)
	defer game.Unsubscribe(connID)

	for {
		msgType, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			sendError(c, "malformed message")
			continue
		}
		if err := wsc.handleMessage(game, msg); err != nil {
			sendError(c, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(game *service.Game, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move payload")
		}
		_, err := game.MakeMove(move.Move)
		return err
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func sendError(c *websocket.Conn, reason string) {
	payload, err := json.Marshal(ws.ErrorPayload{Message: reason})
	if err != nil {
		log.Printf("marshal error payload: %v", err)
		return
	}
	c.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload})
}
