// Package screen defines the contract between the router and the
// individual screens, and the services screens share.
package screen

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/haptics"
	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/store"
	"github.com/abhisek/codequiz/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	// Init returns the command to run when the screen is pushed.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources, such as running
// timers, to release when they leave the stack.
type Closer interface {
	Close()
}

// Accounts signs players in and up.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (*store.User, error)
	Create(ctx context.Context, username, password string) (*store.User, error)
}

// Env carries the services shared by all screens.
type Env struct {
	Accounts  Accounts
	Scores    quiz.ScoreRepo
	Events    quiz.EventSink
	Catalog   *catalog.Catalog
	Questions quiz.QuestionSource
	Quiz      quiz.Config
	Haptics   haptics.Vibrator
	Scheduler quiz.Scheduler
	Logger    *slog.Logger

	// User is the signed in player, empty for guests.
	User string
}

// SignedInMsg is sent when a player logs in or plays as a guest.
type SignedInMsg struct {
	User string
}

// SignedOutMsg returns the app to the login form.
type SignedOutMsg struct{}
