package grove

import (
	"time"

	"github.com/sirupsen/logrus"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime    time.Duration
	traverseTime  time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

// debugLog emits the frame's stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log.WithFields(logrus.Fields{
		"update":     stats.updateTime,
		"traverse":   stats.traverseTime,
		"submit":     stats.submitTime,
		"total":      stats.updateTime + stats.traverseTime + stats.submitTime,
		"commands":   stats.commandCount,
		"draw_calls": stats.drawCallCount,
	}).Debug("grove: frame")
}

// debugMaxTreeDepth is the depth above which Bind warns about a subtree.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if n sits deeper than debugMaxTreeDepth.
func (s *Scene) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.log.WithFields(logrus.Fields{"node": n.Name, "depth": depth}).
			Warn("grove: tree depth exceeds threshold")
	}
}
