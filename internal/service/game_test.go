package service

import (
	"errors"
	"testing"

	"chesskit/chess"
)

func TestGameManager_CreateAndGet(t *testing.T) {
	gm := NewGameManager()
	game, err := gm.Create("")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	state := game.State()
	if state.FEN != chess.FENStartPos {
		t.Fatalf("empty FEN should start a standard game, got %s", state.FEN)
	}
	if len(state.LegalMoves) != 20 {
		t.Fatalf("start position should list 20 moves, got %d", len(state.LegalMoves))
	}

	got, err := gm.Get(state.ID)
	if err != nil || got != game {
		t.Fatalf("Get should return the created game: %v", err)
	}
	if _, err := gm.Get("no-such-id"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("unknown id: want ErrGameNotFound, got %v", err)
	}

	gm.Remove(state.ID)
	if _, err := gm.Get(state.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("removed game should be gone")
	}
}

func TestGameManager_RejectsInvalidFEN(t *testing.T) {
	gm := NewGameManager()
	if _, err := gm.Create("8/8/8/8/8/8/8/K7 w - - 0 1"); !errors.Is(err, chess.ErrInvalidPosition) {
		t.Fatalf("missing king: want ErrInvalidPosition, got %v", err)
	}
	if _, err := gm.Create("garbage"); !errors.Is(err, chess.ErrParse) {
		t.Fatalf("malformed FEN: want ErrParse, got %v", err)
	}
}

func TestGame_MakeMoveUCIAndSAN(t *testing.T) {
	gm := NewGameManager()
	game, _ := gm.Create("")

	state, err := game.MakeMove("e2e4")
	if err != nil {
		t.Fatalf("UCI move failed: %v", err)
	}
	if state.Moves[0] != "e4" {
		t.Fatalf("history should record SAN, got %v", state.Moves)
	}

	state, err = game.MakeMove("Nf6")
	if err != nil {
		t.Fatalf("SAN move failed: %v", err)
	}
	if len(state.Moves) != 2 || state.Moves[1] != "Nf6" {
		t.Fatalf("history wrong: %v", state.Moves)
	}
}

func TestGame_RejectsBadMoves(t *testing.T) {
	gm := NewGameManager()
	game, _ := gm.Create("")
	before := game.State()

	if _, err := game.MakeMove("e2e5"); !errors.Is(err, chess.ErrIllegalMove) {
		t.Fatalf("illegal move: want ErrIllegalMove, got %v", err)
	}
	if _, err := game.MakeMove("xyzzy"); err == nil {
		t.Fatalf("garbage move text should fail")
	}
	if after := game.State(); after.FEN != before.FEN || len(after.Moves) != 0 {
		t.Fatalf("rejected moves must not change the game")
	}
}

func TestGame_StatusReachesCheckmate(t *testing.T) {
	gm := NewGameManager()
	game, _ := gm.Create("")
	for _, move := range []string{"f3", "e5", "g4", "Qh4"} {
		if _, err := game.MakeMove(move); err != nil {
			t.Fatalf("move %s failed: %v", move, err)
		}
	}
	state := game.State()
	if state.Status != chess.BlackWins.String() {
		t.Fatalf("fool's mate should end the game, got %s", state.Status)
	}
	if len(state.LegalMoves) != 0 {
		t.Fatalf("mated side should have no moves")
	}
	if _, err := game.MakeMove("a2a3"); err == nil {
		t.Fatalf("finished game should reject further moves")
	}
	if state.Moves[len(state.Moves)-1] != "Qh4#" {
		t.Fatalf("mating move should carry the mate suffix, got %v", state.Moves)
	}
}

func TestGame_ThreefoldRepetition(t *testing.T) {
	gm := NewGameManager()
	game, _ := gm.Create("")
	// Shuffle knights until the start position has occurred three times.
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8"}
	var state GameState
	for _, move := range shuffle {
		var err error
		state, err = game.MakeMove(move)
		if err != nil {
			t.Fatalf("move %s failed: %v", move, err)
		}
	}
	if state.Status != chess.ThreefoldRepetition.String() {
		t.Fatalf("want threefold repetition, got %s", state.Status)
	}
}

func TestGame_InCheckFlag(t *testing.T) {
	gm := NewGameManager()
	game, err := gm.Create("4k3/8/8/8/8/8/8/4KQ2 w - - 0 1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	state, err := game.MakeMove("Qe2+")
	if err != nil {
		t.Fatalf("check move failed: %v", err)
	}
	if !state.InCheck {
		t.Fatalf("black should be flagged in check")
	}
}
