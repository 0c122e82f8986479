// Package app wires the screens into a Bubble Tea program.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/router"
	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/screens/home"
	"github.com/abhisek/codequiz/internal/screens/login"
	"github.com/abhisek/codequiz/internal/ui/layout"
)

// Options controls how the program starts.
type Options struct {
	// SignedIn skips the login form and opens the home menu for Env.User
	// (an empty user plays as guest).
	SignedIn bool

	// StartQuiz opens a quiz straight away. Implies SignedIn.
	StartQuiz bool
}

// Model is the root Bubble Tea model.
type Model struct {
	env       screen.Env
	router    *router.Router
	startQuiz bool
	width     int
	height    int
}

func newModel(env screen.Env, opts Options) Model {
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}
	m := Model{env: env, startQuiz: opts.StartQuiz}
	if opts.SignedIn || opts.StartQuiz {
		m.router = router.New(home.New(env))
	} else {
		m.router = router.New(login.New(env.Accounts))
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.startQuiz {
		return tea.Batch(cmd, func() tea.Msg { return home.StartQuizMsg{} })
	}
	return cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case scheduledMsg:
		// Session timers fire here so state only changes on this goroutine.
		msg.fire()
		return m, nil

	case screen.SignedInMsg:
		m.env.User = msg.User
		m.env.Logger.Info("signed in", "user", msg.User, "guest", msg.User == "")
		return m, m.router.Reset(home.New(m.env))

	case screen.SignedOutMsg:
		m.env.User = ""
		return m, m.router.Reset(login.New(m.env.Accounts))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}
	return m, m.router.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.env.User, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)
	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) hints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

type scheduledMsg struct {
	fire func()
}

// programScheduler is a quiz.Scheduler whose callbacks are delivered as
// messages to the running program.
type programScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (p *programScheduler) bind(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

func (p *programScheduler) AfterFunc(d time.Duration, f func()) quiz.Timer {
	return time.AfterFunc(d, func() {
		p.mu.Lock()
		send := p.send
		p.mu.Unlock()
		if send == nil {
			f()
			return
		}
		send(scheduledMsg{fire: f})
	})
}

// Run starts the TUI and blocks until it exits. env.Scheduler is replaced
// by one bound to the program.
func Run(ctx context.Context, env screen.Env, opts Options) error {
	sched := &programScheduler{}
	env.Scheduler = sched

	model := newModel(env, opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	sched.bind(p.Send)
	defer model.router.CloseAll()

	_, err := p.Run()
	return err
}
