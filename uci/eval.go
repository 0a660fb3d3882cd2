package uci

import (
	"math"

	"chesskit/chess"
)

// winProbK is the logistic slope per centipawn. Derived from large-sample
// win-rate fits against engine evaluations; the exact value is a tuning
// choice, the curve just has to be monotone and centered on 0.5.
const winProbK = 0.0037

// mateDecay controls how quickly mate confidence relaxes with mate distance.
const mateDecay = 40.0

// WinProbabilityCP converts a White-relative centipawn score to a White win
// probability via a logistic curve. 0 maps to 0.5, and the curve is symmetric
// around it.
func WinProbabilityCP(cp int) float64 {
	return 1.0 / (1.0 + math.Exp(-winProbK*float64(cp)))
}

// WinProbabilityMate converts a White-relative mate distance to a White win
// probability. Positive n means White mates in n, negative means Black does.
// The result saturates toward 1 (or 0) without ever reaching it; shorter
// mates are more extreme.
func WinProbabilityMate(n int) float64 {
	if n == 0 {
		return 0.5
	}
	m := float64(n)
	if m < 0 {
		m = -m
	}
	p := 1.0 - 0.5*m/(m+mateDecay)
	if n < 0 {
		return 1.0 - p
	}
	return p
}

// SideToMoveProbability flips a White win probability to the mover's
// perspective.
func SideToMoveProbability(whiteProb float64, stm chess.Color) float64 {
	if stm == chess.Black {
		return 1.0 - whiteProb
	}
	return whiteProb
}

// normalizeToWhite converts a raw score from the protocol's side-to-move
// convention to White's perspective. Scores the engine reports are relative
// to whoever is on move; this is the one place that convention is applied.
func normalizeToWhite(score int, stm chess.Color) int {
	if stm == chess.Black {
		return -score
	}
	return score
}

// skillElo maps the 0-20 skill-level ladder onto approximate Elo ratings.
var skillElo = [21]int{
	800, 900, 1000, 1100, 1200, 1300, 1400, 1500, 1600, 1700,
	1800, 1900, 2000, 2100, 2200, 2300, 2450, 2600, 2700, 2800, 2900,
}

// ApproxElo estimates the playing strength of a configured analysis for
// display. An explicit Elo limit wins over a skill level; either base is then
// adjusted by how far the search depth sits from a nominal full-strength
// depth. The estimate is monotone in depth and in the strength inputs but
// carries no behavioral weight.
func ApproxElo(eloLimit, skillLevel, depth int) int {
	base := skillElo[len(skillElo)-1]
	switch {
	case eloLimit > 0:
		base = eloLimit
	case skillLevel >= 0 && skillLevel < len(skillElo):
		base = skillElo[skillLevel]
	}
	const nominalDepth = 20
	if depth > 0 {
		base += (depth - nominalDepth) * 15
	}
	if base < 500 {
		base = 500
	}
	if base > 3200 {
		base = 3200
	}
	return base
}
