package table

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loopMsg carries an engine continuation back into Update.
type loopMsg struct {
	fn func()
}

// teaLoop runs the grid engine on the Bubble Tea update loop. Timers and
// provider work become commands; their continuations come back as loopMsg
// and run inside Update, so the engine is only touched from one goroutine.
type teaLoop struct {
	cmds []tea.Cmd
}

func (l *teaLoop) AfterFunc(delay time.Duration, fn func()) {
	l.cmds = append(l.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		return loopMsg{fn: fn}
	}))
}

func (l *teaLoop) Go(work func() func()) {
	l.cmds = append(l.cmds, func() tea.Msg {
		return loopMsg{fn: work()}
	})
}

// add queues a command that is not engine work, e.g. a status timer.
func (l *teaLoop) add(cmd tea.Cmd) {
	if cmd != nil {
		l.cmds = append(l.cmds, cmd)
	}
}

// drain returns everything queued since the last drain as one command.
func (l *teaLoop) drain() tea.Cmd {
	if len(l.cmds) == 0 {
		return nil
	}
	cmds := l.cmds
	l.cmds = nil
	return tea.Batch(cmds...)
}
