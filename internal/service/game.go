package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/slices"

	"chesskit/chess"
	"chesskit/internal/ws"
)

// GameState is the wire snapshot of one game.
type GameState struct {
	ID         string   `json:"id"`
	FEN        string   `json:"fen"`
	Status     string   `json:"status"`
	InCheck    bool     `json:"inCheck"`
	LegalMoves []string `json:"legalMoves"`
	Moves      []string `json:"moves"`
}

// Game is one live game: a board, its repetition history and the websocket
// subscribers watching it. All access goes through the mutex.
type Game struct {
	id      string
	zobrist *chess.ZobristTable

	mu      sync.Mutex
	board   *chess.Board
	history []uint64
	moves   []string // SAN, in play order
	status  chess.GameStatus
	conns   map[string]*websocket.Conn
}

func newGame(id string, board *chess.Board, zt *chess.ZobristTable) *Game {
	g := &Game{
		id:      id,
		zobrist: zt,
		board:   board,
		status:  chess.InProgress,
		conns:   make(map[string]*websocket.Conn),
	}
	g.history = append(g.history, zt.Key(board))
	g.status = chess.EvaluatePosition(board, zt, g.history)
	return g
}

// MakeMove applies UCI or SAN move text, updates game status and notifies
// subscribers. The board is untouched when an error is returned.
func (g *Game) MakeMove(text string) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status.Over() {
		return g.stateLocked(), fmt.Errorf("%w: game is over (%s)", chess.ErrIllegalMove, g.status)
	}

	legal := chess.LegalMoves(g.board)
	move, err := chess.ParseUCI(g.board, text)
	if err != nil {
		move, err = chess.ParseSAN(g.board, legal, text)
		if err != nil {
			return g.stateLocked(), err
		}
	}

	san := move.SAN(g.board, legal)
	if err := g.board.MakeMove(move); err != nil {
		return g.stateLocked(), err
	}

	g.moves = append(g.moves, san)
	g.history = append(g.history, g.zobrist.Key(g.board))
	g.status = chess.EvaluatePosition(g.board, g.zobrist, g.history)

	state := g.stateLocked()
	g.broadcastLocked(state)
	return state, nil
}

// State returns a snapshot of the game.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

// Board returns a private copy of the current position.
func (g *Game) Board() *chess.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) stateLocked() GameState {
	legal := chess.LegalMoves(g.board)
	ucis := make([]string, 0, len(legal))
	for _, m := range legal {
		ucis = append(ucis, m.UCI())
	}
	slices.Sort(ucis)
	return GameState{
		ID:         g.id,
		FEN:        g.board.ToFEN(),
		Status:     g.status.String(),
		InCheck:    chess.IsInCheck(g.board, g.board.SideToMove()),
		LegalMoves: ucis,
		Moves:      append([]string(nil), g.moves...),
	}
}

// Subscribe registers a websocket connection for state broadcasts and sends
// it the current state immediately.
func (g *Game) Subscribe(connID string, conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[connID] = conn
	sendState(conn, g.stateLocked())
}

// Unsubscribe removes a websocket connection. The caller owns closing it.
func (g *Game) Unsubscribe(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, connID)
}

func (g *Game) broadcastLocked(state GameState) {
	for id, conn := range g.conns {
		if err := sendState(conn, state); err != nil {
			// A dead subscriber drops out; its read loop handles the close.
			delete(g.conns, id)
		}
	}
}

func sendState(conn *websocket.Conn, state GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Message{Type: ws.MessageTypeState, Payload: payload})
}
