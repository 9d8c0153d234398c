package aspen

import (
	"fmt"
	"log"
	"os"
	"time"
)

// logger receives all package diagnostics. Replace it with SetLogger.
var logger = log.New(os.Stderr, "[aspen] ", 0)

// SetLogger replaces the package logger. A nil logger silences output.
func SetLogger(l *log.Logger) {
	logger = l
}

func logf(format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}

func warnf(format string, args ...any) {
	logf("warning: "+format, args...)
}

// globalDebug mirrors the most recently booted game's debug flag so that node
// operations (which lack a Game pointer) can check it cheaply.
var globalDebug bool

// debugStats holds per-frame timing. Only populated when the game is in debug mode.
type debugStats struct {
	stepTime   time.Duration
	renderTime time.Duration
	scenes     int
	frame      int
}

// debugLog prints timing stats once per debugLogInterval frames.
const debugLogInterval = 120

func (g *Game) debugLog(stats debugStats) {
	if !g.config.Debug || stats.frame%debugLogInterval != 0 {
		return
	}
	logf("frame %d | step: %v | render: %v | scenes: %d",
		stats.frame, stats.stepTime, stats.renderTime, stats.scenes)
}

// Limits past which debug mode warns about a node tree.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

func debugCheckDisposed(n *Node, op string) {
	if !n.disposed {
		return
	}
	panic(fmt.Sprintf("aspen debug: %s: node %q is disposed", op, n.Name))
}

// debugCheckTreeDepth counts n and its ancestors.
func debugCheckTreeDepth(n *Node) {
	var depth int
	for ; n != nil && depth <= debugMaxTreeDepth; n = n.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		warnf("tree depth %d exceeds %d", depth, debugMaxTreeDepth)
	}
}

func debugCheckChildCount(n *Node) {
	if c := len(n.children); c > debugMaxChildCount {
		warnf("node %q has %d children, limit is %d", n.Name, c, debugMaxChildCount)
	}
}
