package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"chesskit/chess"
)

// ErrGameNotFound is returned for lookups of unknown game IDs.
var ErrGameNotFound = errors.New("game not found")

// GameManager owns all live games. One zobrist table is shared across games;
// keys are only ever compared within a single game's history.
type GameManager struct {
	zobrist *chess.ZobristTable

	mu    sync.RWMutex
	games map[string]*Game
}

func NewGameManager() *GameManager {
	return &GameManager{
		zobrist: chess.NewZobristTable(),
		games:   make(map[string]*Game),
	}
}

// Create starts a game from the given FEN, or from the standard starting
// position when fen is empty. The position must pass strict validation.
func (gm *GameManager) Create(fen string) (*Game, error) {
	if fen == "" {
		fen = chess.FENStartPos
	}
	board, err := chess.ParseFENStrict(fen)
	if err != nil {
		return nil, err
	}

	game := newGame(uuid.New().String(), board, gm.zobrist)

	gm.mu.Lock()
	gm.games[game.id] = game
	gm.mu.Unlock()
	return game, nil
}

// Get looks up a live game by ID.
func (gm *GameManager) Get(id string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	game, ok := gm.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// Remove drops a game. Subscribers are not closed; their read loops notice
// on their own.
func (gm *GameManager) Remove(id string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, id)
}
