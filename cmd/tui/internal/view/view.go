package view

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/pocket/internal/projection"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Session  *session.Session
	Currency string
	Width    int
	Height   int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// intentMsg reports the outcome of a session intent run by intentCmd.
type intentMsg struct {
	done string
	err  error
}

// intentCmd runs fn off the update loop. done is shown when it succeeds.
func intentCmd(done string, fn func(ctx context.Context) (projection.Views, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := fn(ctx)

		return intentMsg{done: done, err: err}
	}
}
