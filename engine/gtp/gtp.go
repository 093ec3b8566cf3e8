package gtp

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"igo-local/engine"
	"igo-local/types"
)

// Engine implements engine.Game using GnuGo via GTP.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	config engine.GameConfig
	log    *zap.Logger

	boardState *types.BoardState
	passCount  int
	moves      int
	gameOver   bool
}

var _ engine.Game = (*Engine)(nil)

// Start launches the GnuGo subprocess and prepares an empty board.
func Start(cfg engine.GameConfig, log *zap.Logger) (*Engine, error) {
	args := []string{
		"--mode", "gtp",
		"--level", fmt.Sprintf("%d", cfg.EngineLevel),
		"--quiet",
	}
	cmd := exec.Command(cfg.EnginePath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	// Discard stderr to prevent blocking
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start GnuGo: %w", err)
	}

	e := newEngine(cfg, stdin, stdout, log)
	e.cmd = cmd
	if err := e.setup(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func newEngine(cfg engine.GameConfig, stdin io.WriteCloser, stdout io.Reader, log *zap.Logger) *Engine {
	return &Engine{
		stdin:      stdin,
		stdout:     bufio.NewReader(stdout),
		config:     cfg,
		log:        log.Named("gtp"),
		boardState: types.NewBoardState(cfg.BoardSize),
	}
}

// setup sizes and clears the board.
func (e *Engine) setup() error {
	if _, err := e.sendCommand(fmt.Sprintf("boardsize %d", e.config.BoardSize)); err != nil {
		return fmt.Errorf("failed to set board size: %w", err)
	}
	if _, err := e.sendCommand("clear_board"); err != nil {
		return fmt.Errorf("failed to clear board: %w", err)
	}
	if _, err := e.sendCommand(fmt.Sprintf("komi %.1f", e.config.Komi)); err != nil {
		return fmt.Errorf("failed to set komi: %w", err)
	}
	return nil
}

// sendCommand sends a GTP command and returns the response.
func (e *Engine) sendCommand(cmd string) (string, error) {
	e.log.Debug("send", zap.String("command", cmd))

	if _, err := fmt.Fprintf(e.stdin, "%s\n", cmd); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	var response strings.Builder
	for {
		line, err := e.stdout.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read response: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		// Empty line signals end of response
		if line == "" {
			break
		}
		if response.Len() > 0 {
			response.WriteString("\n")
		}
		response.WriteString(line)
	}

	result := response.String()
	e.log.Debug("recv", zap.String("command", cmd), zap.String("response", result))

	if strings.HasPrefix(result, "?") {
		return "", fmt.Errorf("GTP error: %s", strings.TrimSpace(strings.TrimPrefix(result, "?")))
	}
	return strings.TrimSpace(strings.TrimPrefix(result, "=")), nil
}

// Reset clears the GnuGo board and the local mirror of it.
func (e *Engine) Reset() {
	if err := e.setup(); err != nil {
		e.log.Warn("reset failed", zap.Error(err))
	}
	e.boardState = types.NewBoardState(e.config.BoardSize)
	e.passCount = 0
	e.moves = 0
	e.gameOver = false
}

// Size returns the board dimension.
func (e *Engine) Size() int {
	return e.config.BoardSize
}

// AllowedHands asks GnuGo for every legal vertex of turn.
func (e *Engine) AllowedHands(turn types.Stone) []types.Hand {
	if e.gameOver {
		return nil
	}
	resp, err := e.sendCommand("all_legal " + colorToGTP(turn))
	if err != nil {
		e.log.Warn("all_legal failed, passing", zap.Error(err))
		return nil
	}
	var hands []types.Hand
	for _, vertex := range strings.Fields(resp) {
		pos, onBoard, err := gtpToPos(vertex, e.config.BoardSize)
		if err != nil || !onBoard {
			continue
		}
		hands = append(hands, types.PutHand(turn, pos.X, pos.Y))
	}
	return hands
}

// PutHand plays hand on the GnuGo board. A rejected play ends the game.
func (e *Engine) PutHand(hand types.Hand) bool {
	if e.gameOver {
		return false
	}
	vertex := handToGTP(hand, e.config.BoardSize)
	if _, err := e.sendCommand(fmt.Sprintf("play %s %s", colorToGTP(hand.Stone), vertex)); err != nil {
		e.log.Warn("play rejected, ending game", zap.Stringer("hand", hand), zap.Error(err))
		e.gameOver = true
		return false
	}

	e.moves++
	e.boardState.MoveNumber = e.moves
	e.boardState.PlayerToMove = hand.Stone.Opposite()
	e.boardState.LastMove = hand.Pos
	if hand.Pass {
		e.passCount++
	} else {
		e.passCount = 0
		e.updateBoardFromGnuGo()
	}

	if e.passCount >= 2 || e.moves >= e.config.MoveLimit() {
		e.gameOver = true
	}
	return !e.gameOver
}

// updateBoardFromGnuGo refreshes the board mirror from list_stones, picking up captures.
func (e *Engine) updateBoardFromGnuGo() {
	size := e.config.BoardSize
	fresh := types.NewBoardState(size)
	for _, color := range []types.Stone{types.Black, types.White} {
		resp, err := e.sendCommand("list_stones " + colorToGTP(color))
		if err != nil {
			e.log.Warn("list_stones failed", zap.Stringer("color", color), zap.Error(err))
			return
		}
		for _, vertex := range strings.Fields(resp) {
			pos, onBoard, err := gtpToPos(vertex, size)
			if err == nil && onBoard {
				fresh.Board[pos.Y][pos.X] = color
			}
		}
	}
	e.boardState.Board = fresh.Board
}

// Board returns a copy of the mirrored board.
func (e *Engine) Board() *types.BoardState {
	return e.boardState.Clone()
}

// Judge asks GnuGo for the final score.
func (e *Engine) Judge() engine.Result {
	resp, err := e.sendCommand("final_score")
	if err != nil {
		e.log.Warn("final_score failed", zap.Error(err))
		return engine.Result{Reason: "unknown"}
	}
	result, err := engine.ParseResult(resp)
	if err != nil {
		e.log.Warn("unparsable score", zap.String("score", resp), zap.Error(err))
		return engine.Result{Reason: "unknown"}
	}
	return result
}

// Close shuts down the GnuGo subprocess.
func (e *Engine) Close() error {
	if e.stdin != nil {
		if _, err := e.sendCommand("quit"); err != nil {
			e.log.Debug("quit failed", zap.Error(err))
		}
		e.stdin.Close()
	}
	if e.cmd != nil && e.cmd.Process != nil {
		return e.cmd.Wait()
	}
	return nil
}
