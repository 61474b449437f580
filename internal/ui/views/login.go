package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coworkhq/cowork/internal/auth"
	"github.com/coworkhq/cowork/internal/models"
	"github.com/coworkhq/cowork/internal/ui/keys"
	"github.com/coworkhq/cowork/internal/ui/styles"
)

// LoggedIn signals a completed login (token + profile pair)
type LoggedIn struct {
	User *models.User
}

type signupDoneMsg struct{}

// LoginView is the sign-in / sign-up form
type LoginView struct {
	life   *auth.Lifecycle
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	signupMode bool
	loginID    textinput.Model
	password   textinput.Model
	nickname   textinput.Model
	focusIdx   int // 0=loginId, 1=password, (2=nickname), last=submit
	submitting bool
	hint       string
}

// NewLoginView creates the login view
func NewLoginView(life *auth.Lifecycle) *LoginView {
	loginID := textinput.New()
	loginID.Placeholder = "Login ID"
	loginID.CharLimit = 50

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	nickname := textinput.New()
	nickname.Placeholder = "Nickname"
	nickname.CharLimit = 50

	v := &LoginView{
		life:     life,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		loginID:  loginID,
		password: password,
		nickname: nickname,
	}
	v.updateFocus()
	return v
}

func (v *LoginView) Init() tea.Cmd {
	v.loginID.Focus()
	return textinput.Blink
}

// Reset returns the form to a blank login state (used after a forced
// session teardown).
func (v *LoginView) Reset() {
	v.signupMode = false
	v.submitting = false
	v.focusIdx = 0
	v.hint = ""
	v.loginID.Reset()
	v.password.Reset()
	v.nickname.Reset()
	v.updateFocus()
}

func (v *LoginView) fieldCount() int {
	if v.signupMode {
		return 4 // loginId, password, nickname, submit
	}
	return 3 // loginId, password, submit
}

func (v *LoginView) submitIdx() int { return v.fieldCount() - 1 }

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case signupDoneMsg:
		v.submitting = false
		v.signupMode = false
		v.focusIdx = 0
		v.hint = "Account created. Please login."
		v.password.Reset()
		v.updateFocus()
		return v, nil

	case errMsg:
		// Gateway already notified the user; just unfreeze the form.
		v.submitting = false
		return v, nil

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+t":
			// Toggle between login and sign-up
			v.signupMode = !v.signupMode
			v.focusIdx = 0
			v.hint = ""
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + v.fieldCount() - 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < v.submitIdx() {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.loginID, cmd = v.loginID.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	case 2:
		if v.signupMode {
			v.nickname, cmd = v.nickname.Update(msg)
		}
	}
	return v, cmd
}

func (v *LoginView) updateFocus() {
	v.loginID.Blur()
	v.password.Blur()
	v.nickname.Blur()
	switch v.focusIdx {
	case 0:
		v.loginID.Focus()
	case 1:
		v.password.Focus()
	case 2:
		if v.signupMode {
			v.nickname.Focus()
		}
	}
}

func (v *LoginView) submit() tea.Cmd {
	loginID := strings.TrimSpace(v.loginID.Value())
	password := v.password.Value()
	if loginID == "" || password == "" {
		v.hint = "Login ID and password are required"
		return nil
	}

	if v.signupMode {
		nickname := strings.TrimSpace(v.nickname.Value())
		if nickname == "" {
			v.hint = "Nickname is required"
			return nil
		}
		v.submitting = true
		v.hint = ""
		return func() tea.Msg {
			if err := v.life.Signup(context.Background(), loginID, password, nickname); err != nil {
				return errMsg{err}
			}
			return signupDoneMsg{}
		}
	}

	v.submitting = true
	v.hint = ""
	return func() tea.Msg {
		user, err := v.life.Login(context.Background(), loginID, password)
		if err != nil {
			return errMsg{err}
		}
		return LoggedIn{User: user}
	}
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	formTitle := "CoWork — Login"
	if v.signupMode {
		formTitle = "CoWork — Sign Up"
	}

	idStyle := s.Input
	pwStyle := s.Input
	nickStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		idStyle = s.InputFocused
	case 1:
		pwStyle = s.InputFocused
	case 2:
		if v.signupMode {
			nickStyle = s.InputFocused
		} else {
			btnStyle = s.ButtonFocused
		}
	case 3:
		btnStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Login ID:",
		idStyle.Width(inputWidth).Render(v.loginID.View()),
		"",
		"Password:",
		pwStyle.Width(inputWidth).Render(v.password.View()),
	}
	if v.signupMode {
		rows = append(rows,
			"",
			"Nickname:",
			nickStyle.Width(inputWidth).Render(v.nickname.View()),
		)
	}

	btnLabel := " Login "
	if v.signupMode {
		btnLabel = " Sign Up "
	}
	if v.submitting {
		btnLabel = " ... "
	}
	rows = append(rows, "", btnStyle.Render(btnLabel))

	if v.hint != "" {
		rows = append(rows, "", s.TitleMuted.Render(v.hint))
	}

	toggleHint := "Ctrl+T: sign up instead"
	if v.signupMode {
		toggleHint = "Ctrl+T: back to login"
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵: submit • "+toggleHint))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
