package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"

	"chesskit/chess"
)

// State is the engine session lifecycle state.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateIdle
	StateInitializing
	StateAnalyzing
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateAnalyzing:
		return "analyzing"
	case StateCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Config describes how to run and tune the engine subprocess.
type Config struct {
	Path    string
	Args    []string
	Threads int
	Hash    int // transposition table size in MB

	// HandshakeTimeout bounds waits for uciok/readyok; QuitTimeout bounds the
	// graceful shutdown window before the process is killed.
	HandshakeTimeout time.Duration
	QuitTimeout      time.Duration

	Logger *log.Logger
}

// Request describes one analysis. FEN may be empty or "startpos" for the
// standard starting position. Exactly one strength ceiling applies: a
// positive EloLimit wins, otherwise a SkillLevel in 0-20; a SkillLevel of -1
// (the NewRequest default) leaves the engine at full strength.
type Request struct {
	FEN         string
	MoveTimeMs  int
	SearchDepth int
	EvalDepth   int
	EloLimit    int
	SkillLevel  int
}

// NewRequest returns a Request for the given position with no strength
// ceiling applied.
func NewRequest(fen string) Request {
	return Request{FEN: fen, SkillLevel: -1}
}

// Result is the outcome of one analysis.
type Result struct {
	BestMove string
	Move     chess.Move

	// Checkmate/Stalemate flag terminal positions where the engine had no
	// move to suggest; Move and BestMove are empty in that case.
	Checkmate bool
	Stalemate bool

	// Scores are normalized to White's perspective.
	ScoreCP int
	MateIn  int
	HasMate bool
	Depth   int
	PV      []string

	WhiteWinProb   float64
	SideToMoveProb float64
	ApproxElo      int
}

// Engine manages a UCI engine subprocess: lifecycle, handshake, one analysis
// at a time, and crash detection. A background goroutine owns the stdout
// stream and feeds lines to the session; the Crashed state is sticky until
// Restart.
type Engine struct {
	cfg Config

	mu     sync.Mutex
	state  State
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan string
	exited chan struct{}

	// wmu guards the stdin writer so Stop's quit cannot interleave with an
	// in-flight command write.
	wmu    sync.Mutex
	writer *bufio.Writer
}

const (
	defaultHandshakeTimeout = 5 * time.Second
	defaultQuitTimeout      = 2 * time.Second
	defaultDepthTimeout     = 30 * time.Second
	defaultSearchDepth      = 12
)

// NewEngine returns an engine session in the Stopped state.
func NewEngine(cfg Config) *Engine {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.QuitTimeout <= 0 {
		cfg.QuitTimeout = defaultQuitTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Engine{cfg: cfg, state: StateStopped}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start spawns the subprocess and launches the output reader. Valid from
// Stopped or Crashed.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateStopped && e.state != StateCrashed {
		return fmt.Errorf("%w: start from state %s", ErrEngineUnavailable, e.state)
	}
	e.state = StateStarting

	cmd := exec.Command(e.cfg.Path, e.cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		e.state = StateStopped
		return fmt.Errorf("%w: stdin pipe: %v", ErrEngineUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		e.state = StateStopped
		return fmt.Errorf("%w: stdout pipe: %v", ErrEngineUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		e.state = StateStopped
		return fmt.Errorf("%w: exec %s: %v", ErrEngineUnavailable, e.cfg.Path, err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.wmu.Lock()
	e.writer = bufio.NewWriter(stdin)
	e.wmu.Unlock()
	e.lines = make(chan string, 1024)
	e.exited = make(chan struct{})

	lines := e.lines
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	exited := e.exited
	go func() {
		cmd.Wait()
		close(exited)
	}()

	e.state = StateIdle
	return nil
}

// Initialize performs the protocol handshake and applies thread/hash options.
// A handshake timeout is logged and returned but leaves the session usable.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return fmt.Errorf("%w: initialize from state %s", ErrEngineUnavailable, e.state)
	}
	e.state = StateInitializing
	e.mu.Unlock()

	err := e.handshake(ctx)
	e.mu.Lock()
	if e.state == StateInitializing {
		e.state = StateIdle
	}
	e.mu.Unlock()
	if err != nil {
		e.cfg.Logger.Printf("engine handshake failed: %v", err)
	}
	return err
}

func (e *Engine) handshake(ctx context.Context) error {
	if err := e.send("uci"); err != nil {
		return err
	}
	if err := e.waitFor(ctx, "uciok", e.cfg.HandshakeTimeout); err != nil {
		return err
	}
	if e.cfg.Threads > 0 {
		if err := e.send(fmt.Sprintf("setoption name Threads value %d", e.cfg.Threads)); err != nil {
			return err
		}
	}
	if e.cfg.Hash > 0 {
		if err := e.send(fmt.Sprintf("setoption name Hash value %d", e.cfg.Hash)); err != nil {
			return err
		}
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	return e.waitFor(ctx, "readyok", e.cfg.HandshakeTimeout)
}

// Analyze runs one search and reports the best move with its evaluation. The
// FEN is validated before the subprocess is touched; an invalid position
// never reaches the engine. Only one analysis may be in flight.
func (e *Engine) Analyze(ctx context.Context, req Request) (Result, error) {
	fen := req.FEN
	if fen == "" || fen == "startpos" {
		fen = chess.FENStartPos
	}
	board, err := chess.ParseFENStrict(fen)
	if err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	switch e.state {
	case StateAnalyzing:
		e.mu.Unlock()
		return Result{}, ErrBusy
	case StateIdle:
		e.state = StateAnalyzing
	default:
		state := e.state
		e.mu.Unlock()
		return Result{}, fmt.Errorf("%w: analyze from state %s", ErrEngineUnavailable, state)
	}
	e.mu.Unlock()

	res, err := e.analyze(ctx, req, board, fen)

	e.mu.Lock()
	if e.state == StateAnalyzing {
		e.state = StateIdle
	}
	e.mu.Unlock()
	return res, err
}

func (e *Engine) analyze(ctx context.Context, req Request, board *chess.Board, fen string) (Result, error) {
	// Snapshot the channels: Stop nils the fields under mu, and a concurrent
	// Stop must not leave this loop selecting on nil channels.
	e.mu.Lock()
	lines, exited := e.lines, e.exited
	e.mu.Unlock()
	if lines == nil || exited == nil {
		return Result{}, fmt.Errorf("%w: engine is not running", ErrEngineUnavailable)
	}

	if err := e.configureStrength(req); err != nil {
		return Result{}, err
	}
	if err := e.send("position fen " + fen); err != nil {
		return Result{}, err
	}

	budget := defaultDepthTimeout
	var goCmd string
	switch {
	case req.MoveTimeMs > 0:
		goCmd = fmt.Sprintf("go movetime %d", req.MoveTimeMs)
		budget = 2*time.Duration(req.MoveTimeMs)*time.Millisecond + 2*time.Second
	case req.SearchDepth > 0:
		goCmd = fmt.Sprintf("go depth %d", req.SearchDepth)
	default:
		goCmd = fmt.Sprintf("go depth %d", defaultSearchDepth)
	}
	if err := e.send(goCmd); err != nil {
		return Result{}, err
	}

	timer := time.NewTimer(budget)
	defer timer.Stop()

	var infos []Info
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				e.markCrashed("output stream closed mid-analysis")
				return Result{}, fmt.Errorf("%w: engine died during search", ErrEngineUnavailable)
			}
			if info, ok := parseInfo(line); ok {
				infos = append(infos, info)
				continue
			}
			if token, ok := parseBestMove(line); ok {
				return e.buildResult(req, board, token, infos)
			}
		case <-timer.C:
			e.send("stop")
			return Result{}, fmt.Errorf("%w: no best move within %s", ErrTimeout, budget)
		case <-ctx.Done():
			e.send("stop")
			return Result{}, ctx.Err()
		case <-exited:
			e.markCrashed("process exited mid-analysis")
			return Result{}, fmt.Errorf("%w: engine died during search", ErrEngineUnavailable)
		}
	}
}

func (e *Engine) configureStrength(req Request) error {
	switch {
	case req.EloLimit > 0:
		if err := e.send("setoption name UCI_LimitStrength value true"); err != nil {
			return err
		}
		return e.send(fmt.Sprintf("setoption name UCI_Elo value %d", req.EloLimit))
	case req.SkillLevel >= 0:
		return e.send(fmt.Sprintf("setoption name Skill Level value %d", req.SkillLevel))
	default:
		return e.send("setoption name UCI_LimitStrength value false")
	}
}

func (e *Engine) buildResult(req Request, board *chess.Board, token string, infos []Info) (Result, error) {
	stm := board.SideToMove()
	info, hasInfo := selectInfo(infos, req.EvalDepth)

	if token == "(none)" {
		// No move available: a mate score means the side to move is mated,
		// otherwise the position is stalemate.
		res := Result{Depth: info.Depth}
		if hasInfo && info.HasMate {
			res.Checkmate = true
			res.HasMate = true
			if stm == chess.White {
				res.WhiteWinProb = 0.0
			} else {
				res.WhiteWinProb = 1.0
			}
		} else {
			res.Stalemate = true
			res.WhiteWinProb = 0.5
		}
		res.SideToMoveProb = SideToMoveProbability(res.WhiteWinProb, stm)
		res.ApproxElo = ApproxElo(req.EloLimit, req.SkillLevel, searchDepthOf(req))
		return res, nil
	}

	move, err := chess.ParseUCI(board, token)
	if err != nil {
		return Result{}, fmt.Errorf("%w: bestmove %q: %v", ErrProtocol, token, err)
	}
	if len(token) == 5 {
		// The claimed promotion must match the mover's color and direction.
		piece := board.PieceAt(move.From)
		if piece.Color() != stm || !chess.RequiresPromotion(move.From, move.To, piece) {
			return Result{}, fmt.Errorf("%w: bestmove %q promotes against the side to move", ErrProtocol, token)
		}
	}

	res := Result{
		BestMove: token,
		Move:     move,
		Depth:    info.Depth,
		PV:       info.PV,
	}
	switch {
	case hasInfo && info.HasMate:
		res.MateIn = normalizeToWhite(info.Mate, stm)
		res.HasMate = true
		res.WhiteWinProb = WinProbabilityMate(res.MateIn)
	case hasInfo && info.HasCP:
		res.ScoreCP = normalizeToWhite(info.CP, stm)
		res.WhiteWinProb = WinProbabilityCP(res.ScoreCP)
	default:
		res.WhiteWinProb = 0.5
	}
	res.SideToMoveProb = SideToMoveProbability(res.WhiteWinProb, stm)
	res.ApproxElo = ApproxElo(req.EloLimit, req.SkillLevel, searchDepthOf(req))
	return res, nil
}

func searchDepthOf(req Request) int {
	if req.SearchDepth > 0 {
		return req.SearchDepth
	}
	if req.MoveTimeMs > 0 {
		return 0
	}
	return defaultSearchDepth
}

// Stop shuts the subprocess down: graceful quit with a bounded wait, then a
// kill. Always releases the reader goroutine and pipes. Valid from any state.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil {
		e.state = StateStopped
		return nil
	}

	// A dead process failing its quit write is not a new crash; errors are
	// deliberately ignored here.
	e.wmu.Lock()
	if e.writer != nil {
		e.writer.WriteString("quit\n")
		e.writer.Flush()
		e.writer = nil
	}
	e.wmu.Unlock()
	select {
	case <-e.exited:
	case <-time.After(e.cfg.QuitTimeout):
		e.cfg.Logger.Printf("engine ignored quit, killing pid %d", e.cmd.Process.Pid)
		e.cmd.Process.Kill()
		<-e.exited
	}
	e.stdin.Close()

	// Drain so the reader goroutine can finish.
	for range e.lines {
	}

	e.cmd = nil
	e.stdin = nil
	e.lines = nil
	e.exited = nil
	e.state = StateStopped
	return nil
}

// Restart recovers a crashed or wedged session: stop, start, handshake.
func (e *Engine) Restart(ctx context.Context) error {
	if err := e.Stop(); err != nil {
		return err
	}
	if err := e.Start(); err != nil {
		return err
	}
	return e.Initialize(ctx)
}

func (e *Engine) send(cmd string) error {
	e.wmu.Lock()
	if e.writer == nil {
		e.wmu.Unlock()
		return ErrEngineUnavailable
	}
	_, err := e.writer.WriteString(cmd + "\n")
	if err == nil {
		err = e.writer.Flush()
	}
	// Release before markCrashed: it takes mu, and Stop takes mu before wmu.
	e.wmu.Unlock()
	if err != nil {
		e.markCrashed(fmt.Sprintf("write %q: %v", cmd, err))
		return fmt.Errorf("%w: write failed: %v", ErrEngineUnavailable, err)
	}
	return nil
}

// waitFor consumes lines until one starts with the given prefix.
func (e *Engine) waitFor(ctx context.Context, prefix string, timeout time.Duration) error {
	e.mu.Lock()
	lines := e.lines
	e.mu.Unlock()
	if lines == nil {
		return ErrEngineUnavailable
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				e.markCrashed("output stream closed during handshake")
				return fmt.Errorf("%w: engine died during handshake", ErrEngineUnavailable)
			}
			if len(line) >= len(prefix) && line[:len(prefix)] == prefix {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("%w: no %q within %s", ErrTimeout, prefix, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (e *Engine) markCrashed(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateCrashed || e.state == StateStopped {
		return
	}
	e.cfg.Logger.Printf("engine crashed: %s", reason)
	e.state = StateCrashed
}
