package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"chesskit/chess"
	"chesskit/uci"
)

func main() {
	enginePath := flag.String("engine", "", "path to a UCI engine binary (required)")
	fen := flag.String("fen", chess.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "search depth")
	movetime := flag.Int("movetime", 0, "search time in milliseconds")
	evalDepth := flag.Int("evaldepth", 0, "report the score from this exact depth when available")
	elo := flag.Int("elo", 0, "limit engine strength to this Elo")
	skill := flag.Int("skill", -1, "limit engine strength to this skill level (0-20)")
	threads := flag.Int("threads", 1, "engine thread count")
	hash := flag.Int("hash", 64, "engine hash size in MB")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall analysis timeout")
	flag.Parse()

	if *enginePath == "" {
		fmt.Fprintln(os.Stderr, "-engine is required")
		os.Exit(2)
	}

	engine := uci.NewEngine(uci.Config{Path: *enginePath, Threads: *threads, Hash: *hash})
	if err := engine.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "starting engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := engine.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "engine handshake: %v\n", err)
		os.Exit(1)
	}

	req := uci.NewRequest(*fen)
	req.SearchDepth = *depth
	req.MoveTimeMs = *movetime
	req.EvalDepth = *evalDepth
	req.EloLimit = *elo
	req.SkillLevel = *skill

	res, err := engine.Analyze(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	switch {
	case res.Checkmate:
		fmt.Println("position is checkmate")
	case res.Stalemate:
		fmt.Println("position is stalemate")
	default:
		fmt.Printf("bestmove %s (depth %d)\n", res.BestMove, res.Depth)
		if res.HasMate {
			fmt.Printf("score    mate %d\n", res.MateIn)
		} else {
			fmt.Printf("score    cp %d\n", res.ScoreCP)
		}
		fmt.Printf("winprob  white %.3f, side to move %.3f\n", res.WhiteWinProb, res.SideToMoveProb)
		if len(res.PV) > 0 {
			fmt.Printf("pv       %v\n", res.PV)
		}
	}
	if res.ApproxElo > 0 {
		fmt.Printf("strength ~%d Elo\n", res.ApproxElo)
	}
}
