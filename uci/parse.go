package uci

import (
	"strconv"
	"strings"
)

// Info is one "info" progress line from the engine. Score fields are relative
// to the side to move, as the protocol specifies.
type Info struct {
	Depth   int
	CP      int
	Mate    int
	HasCP   bool
	HasMate bool
	PV      []string
}

// parseInfo extracts depth, score and principal variation from an info line.
// Lines without a score are reported as not ok; unknown tokens are skipped.
func parseInfo(line string) (Info, bool) {
	if !strings.HasPrefix(line, "info") {
		return Info{}, false
	}
	var info Info
	fields := strings.Fields(line)
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				if n, err := strconv.Atoi(fields[i+1]); err == nil {
					info.Depth = n
				}
				i++
			}
		case "score":
			if i+2 < len(fields) {
				n, err := strconv.Atoi(fields[i+2])
				if err == nil {
					switch fields[i+1] {
					case "cp":
						info.CP = n
						info.HasCP = true
					case "mate":
						info.Mate = n
						info.HasMate = true
					}
				}
				i += 2
			}
		case "pv":
			if i+1 < len(fields) {
				info.PV = fields[i+1:]
				i = len(fields)
			}
		}
	}
	return info, info.HasCP || info.HasMate
}

// parseBestMove extracts the move token from a "bestmove" line. The second
// return is false for non-bestmove lines. A "(none)" token is passed through
// for the caller to interpret against the mate context.
func parseBestMove(line string) (string, bool) {
	if !strings.HasPrefix(line, "bestmove") {
		return "", false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// selectInfo picks the score to report: the line at exactly evalDepth when one
// exists, otherwise the deepest score-bearing line seen.
func selectInfo(infos []Info, evalDepth int) (Info, bool) {
	var best Info
	found := false
	for _, info := range infos {
		if evalDepth > 0 && info.Depth == evalDepth {
			return info, true
		}
		if !found || info.Depth > best.Depth {
			best = info
			found = true
		}
	}
	return best, found
}
