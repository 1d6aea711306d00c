// Package login drives the marketplace sign-in screens.
package login

import (
	"context"

	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"
)

// Element ids of the sign-in screens
const (
	UsernameInput    = "login_username"
	UsernameContinue = "login_password_continue"
	PasswordInput    = "login_password"
	ControlContinue  = "login_control_continue"
	AnswerInput      = "login_answer"
)

// State is the position of the flow in the sign-in sequence
type State int

const (
	NotLoggedIn State = iota
	UsernameEntered
	PasswordEntered
	SecretAnswerEntered
	LoggedIn
)

func (s State) String() string {
	switch s {
	case NotLoggedIn:
		return "not_logged_in"
	case UsernameEntered:
		return "username_entered"
	case PasswordEntered:
		return "password_entered"
	case SecretAnswerEntered:
		return "secret_answer_entered"
	case LoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Flow signs a session in with its credentials
type Flow struct {
	session *browser.Session
	state   State
	log     *logger.Logger
}

// NewFlow creates a login flow for session
func NewFlow(session *browser.Session) *Flow {
	return &Flow{
		session: session,
		state:   NotLoggedIn,
		log:     logger.ForLogin(),
	}
}

// State returns the state reached by the last Login call
func (f *Flow) State() State {
	return f.state
}

// Login walks username, password and, when the account asks for it, the
// secret answer screen. Every call starts over from the login page.
func (f *Flow) Login(ctx context.Context) error {
	f.state = NotLoggedIn
	creds := f.session.Credentials

	if err := f.session.Navigate(ctx, f.session.Site.LoginURL); err != nil {
		return scanerrors.NewLogin(f.state.String(), "could not open login page", err)
	}
	f.log.Info().Msg("Login page loaded")

	if err := f.submit(ctx, UsernameInput, creds.Username, UsernameContinue); err != nil {
		return err
	}
	f.advance(UsernameEntered)

	if err := f.submit(ctx, PasswordInput, creds.Password, ControlContinue); err != nil {
		return err
	}
	f.advance(PasswordEntered)

	if f.session.IsLogged(ctx) {
		f.advance(LoggedIn)
		return nil
	}

	f.log.Info().Msg("Secret answer requested")
	if err := f.submit(ctx, AnswerInput, creds.SecretAnswer, ControlContinue); err != nil {
		return err
	}
	f.advance(SecretAnswerEntered)
	f.advance(LoggedIn)
	return nil
}

func (f *Flow) submit(ctx context.Context, input, value, button string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.session.EnterTextWhenLoaded(ctx, input, value); err != nil {
		return scanerrors.NewLogin(f.state.String(), "could not fill "+input, err)
	}
	if err := f.session.ClickElement(ctx, button); err != nil {
		return scanerrors.NewLogin(f.state.String(), "could not press "+button, err)
	}
	return nil
}

func (f *Flow) advance(next State) {
	f.log.Debug().Str("from", f.state.String()).Str("to", next.String()).Msg("Login state changed")
	f.state = next
}
