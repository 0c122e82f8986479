// Package login is the sign-in and sign-up form.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/store"
	"github.com/abhisek/codequiz/internal/ui/components"
	"github.com/abhisek/codequiz/internal/ui/layout"
	"github.com/abhisek/codequiz/internal/ui/theme"
)

const (
	fieldUser = iota
	fieldPassword
)

type resultMsg struct {
	user   *store.User
	signup bool
	err    error
}

// Screen collects a username and password. Enter signs in, ctrl+s signs
// up, ctrl+g plays as a guest. Success emits screen.SignedInMsg.
type Screen struct {
	accounts screen.Accounts
	inputs   [2]components.TextInput
	focus    int
	busy     bool
	errMsg   string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the login form. A nil accounts service allows guest play
// only.
func New(accounts screen.Accounts) *Screen {
	return &Screen{
		accounts: accounts,
		inputs: [2]components.TextInput{
			components.NewTextInput("Username", "your name", false, 32),
			components.NewTextInput("Password", "secret", true, 64),
		},
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.inputs[fieldUser].Focus()
}

func (s *Screen) Title() string { return "Sign in" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+S", Description: "Sign up"},
		{Key: "Ctrl+G", Description: "Guest"},
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		if msg.err != nil {
			s.errMsg = describe(msg.err, msg.signup)
			s.inputs[fieldPassword].Reset()
			return s, nil
		}
		return s, signedIn(msg.user.Username)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			return s, s.toggleFocus()
		case "enter":
			if s.focus == fieldUser {
				return s, s.toggleFocus()
			}
			return s, s.submit(false)
		case "ctrl+s":
			return s, s.submit(true)
		case "ctrl+g":
			return s, signedIn("")
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *Screen) toggleFocus() tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = 1 - s.focus
	return s.inputs[s.focus].Focus()
}

func (s *Screen) submit(signup bool) tea.Cmd {
	if s.accounts == nil {
		s.errMsg = "Accounts are unavailable, press Ctrl+G to play as a guest"
		return nil
	}
	username := strings.TrimSpace(s.inputs[fieldUser].Value())
	password := s.inputs[fieldPassword].Value()
	if username == "" || password == "" {
		s.errMsg = "Please fill in username and password"
		return nil
	}

	s.busy = true
	s.errMsg = ""
	accounts := s.accounts
	return func() tea.Msg {
		ctx := context.Background()
		var (
			u   *store.User
			err error
		)
		if signup {
			u, err = accounts.Create(ctx, username, password)
		} else {
			u, err = accounts.Authenticate(ctx, username, password)
		}
		return resultMsg{user: u, signup: signup, err: err}
	}
}

func signedIn(user string) tea.Cmd {
	return func() tea.Msg { return screen.SignedInMsg{User: user} }
}

func describe(err error, signup bool) string {
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		return "Wrong username or password"
	case errors.Is(err, store.ErrUserExists):
		return "That username is taken"
	case signup:
		return "Could not sign up: " + err.Error()
	default:
		return "Could not sign in: " + err.Error()
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	for i, in := range s.inputs {
		label := theme.Label.Render(in.Label)
		if i == s.focus {
			label = theme.Selected.Render(in.Label)
		}
		b.WriteString(label + "\n" + in.View())
		if i == fieldUser {
			b.WriteString("\n\n")
		}
	}

	status := theme.Hint.Render("New here? Fill in both fields and press Ctrl+S")
	switch {
	case s.busy:
		status = theme.Hint.Render("Checking...")
	case s.errMsg != "":
		status = theme.ErrorText.Render(s.errMsg)
	}

	content := renderBanner(width) + "\n\n" +
		theme.Subtitle.Render("Learn to code, one question at a time 🚀") + "\n\n" +
		components.Card(b.String(), cw) + "\n" + status
	return components.Centered(content, width, height)
}
