package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"chesskit/chess"
)

func main() {
	fen := flag.String("fen", chess.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	compare := flag.Bool("compare", false, "Cross-check per-move counts against the reference generator")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	if *compare {
		if diverged := comparePerft(board, *fen, *depth); diverged {
			os.Exit(1)
		}
		return
	}

	if *divide {
		div := chess.PerftDivide(board, *depth)
		moves := make([]string, 0, len(div))
		var sum uint64
		for m, n := range div {
			moves = append(moves, m)
			sum += n
		}
		sort.Strings(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += chess.Perft(board, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)
}

// comparePerft diffs our per-root-move counts against an independent bitboard
// generator and prints every divergence.
func comparePerft(board *chess.Board, fen string, depth int) bool {
	ours := chess.PerftDivide(board, depth)

	ref := dragontoothmg.ParseFen(fen)
	theirs := make(map[string]uint64, len(ours))
	for _, m := range ref.GenerateLegalMoves() {
		undo := ref.Apply(m)
		theirs[m.String()] = refPerft(&ref, depth-1)
		undo()
	}

	moves := make(map[string]bool, len(ours)+len(theirs))
	for m := range ours {
		moves[m] = true
	}
	for m := range theirs {
		moves[m] = true
	}
	sorted := make([]string, 0, len(moves))
	for m := range moves {
		sorted = append(sorted, m)
	}
	sort.Strings(sorted)

	diverged := false
	for _, m := range sorted {
		a, inOurs := ours[m]
		b, inTheirs := theirs[m]
		switch {
		case !inOurs:
			fmt.Printf("%s: missing from our generator (reference has %d)\n", m, b)
			diverged = true
		case !inTheirs:
			fmt.Printf("%s: not in reference generator (we have %d)\n", m, a)
			diverged = true
		case a != b:
			fmt.Printf("%s: %d vs reference %d\n", m, a, b)
			diverged = true
		}
	}
	if !diverged {
		fmt.Printf("ok: %d root moves agree at depth %d\n", len(ours), depth)
	}
	return diverged
}

func refPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += refPerft(b, depth-1)
		undo()
	}
	return nodes
}
