package login

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/store"
)

type fakeAccounts struct {
	users map[string]string
}

func (f *fakeAccounts) Authenticate(_ context.Context, username, password string) (*store.User, error) {
	if pw, ok := f.users[username]; ok && pw == password {
		return &store.User{Username: username}, nil
	}
	return nil, store.ErrInvalidCredentials
}

func (f *fakeAccounts) Create(_ context.Context, username, password string) (*store.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, store.ErrUserExists
	}
	f.users[username] = password
	return &store.User{Username: username}, nil
}

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func press(s *Screen, code rune, mod tea.KeyMod) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code, Mod: mod})
	return cmd
}

// run executes cmd and feeds its message back, returning the final message.
func run(t *testing.T, s *Screen, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(resultMsg); ok {
		_, next := s.Update(msg)
		if next == nil {
			return nil
		}
		return next()
	}
	return msg
}

func fill(s *Screen, user, password string) {
	s.Init()
	typeText(s, user)
	press(s, tea.KeyTab, 0)
	typeText(s, password)
}

func TestSignIn(t *testing.T) {
	s := New(&fakeAccounts{users: map[string]string{"ada": "lovelace"}})
	fill(s, "ada", "lovelace")

	msg := run(t, s, press(s, tea.KeyEnter, 0))
	signed, ok := msg.(screen.SignedInMsg)
	if !ok || signed.User != "ada" {
		t.Fatalf("msg = %#v", msg)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	s := New(&fakeAccounts{users: map[string]string{"ada": "lovelace"}})
	fill(s, "ada", "nope")

	if msg := run(t, s, press(s, tea.KeyEnter, 0)); msg != nil {
		t.Fatalf("unexpected msg %#v", msg)
	}
	if !strings.Contains(s.View(100, 40), "Wrong username or password") {
		t.Fatal("expected credential error")
	}
	if s.inputs[fieldPassword].Value() != "" {
		t.Fatal("password should be cleared after a failure")
	}
}

func TestSignUp(t *testing.T) {
	accounts := &fakeAccounts{users: map[string]string{"ada": "x"}}
	s := New(accounts)
	fill(s, "grace", "hopper")

	msg := run(t, s, press(s, 's', tea.ModCtrl))
	if signed, ok := msg.(screen.SignedInMsg); !ok || signed.User != "grace" {
		t.Fatalf("msg = %#v", msg)
	}
	if _, ok := accounts.users["grace"]; !ok {
		t.Fatal("account not created")
	}

	s = New(accounts)
	fill(s, "ada", "whatever")
	run(t, s, press(s, 's', tea.ModCtrl))
	if !strings.Contains(s.View(100, 40), "That username is taken") {
		t.Fatal("expected taken message")
	}
}

func TestEnterOnUsernameMovesFocus(t *testing.T) {
	s := New(&fakeAccounts{users: map[string]string{}})
	s.Init()
	typeText(s, "ada")
	if cmd := press(s, tea.KeyEnter, 0); s.focus != fieldPassword {
		t.Fatalf("focus = %d (cmd %v)", s.focus, cmd)
	}
}

func TestEmptyFields(t *testing.T) {
	s := New(&fakeAccounts{users: map[string]string{}})
	s.Init()
	press(s, tea.KeyTab, 0)
	if cmd := press(s, tea.KeyEnter, 0); cmd != nil {
		t.Fatal("empty form should not submit")
	}
	if !strings.Contains(s.View(100, 40), "Please fill in") {
		t.Fatal("expected validation message")
	}
}

func TestGuest(t *testing.T) {
	s := New(nil)
	s.Init()
	msg := press(s, 'g', tea.ModCtrl)()
	if signed, ok := msg.(screen.SignedInMsg); !ok || signed.User != "" {
		t.Fatalf("msg = %#v", msg)
	}
}
