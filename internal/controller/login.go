package controller

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/model"
	"github.com/iliyamo/bookmyshow/internal/repository"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// Credentials is the login and signup form.  bcrypt only hashes the
// first 72 bytes of a password, so the limit is on bytes, not runes.
type Credentials struct {
	Username string `json:"username" validate:"required,max=191"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// normalize trims the username the same way on signup and login.
func (in Credentials) normalize() Credentials {
	in.Username = strings.TrimSpace(in.Username)
	return in
}

// Login checks the credentials and sends users to the movie list and
// admins to the dashboard.  Unknown users, wrong passwords and roles
// outside the enum keep the visitor on the login page.
func (c *Controller) Login(ctx context.Context, s *session.Session, in Credentials) (*session.Session, View, error) {
	log := logging.Ctx(ctx)
	next := s.Clone()
	if next.Page != session.PageLogin {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}
	in = in.normalize()

	u, err := c.Users.FindByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return c.loginFailed(ctx, s, next, newError(KindNotFound, "User not found. Please check your credentials.", err))
	case err != nil:
		return c.storageFail(s, err)
	}
	if !c.Passwords.Verify(in.Password, u.PasswordHash) {
		log.Warn().Str("username", u.Username).Msg("login: password mismatch")
		return c.loginFailed(ctx, s, next, newError(KindUnauthorized, "Incorrect password!", nil))
	}
	role, err := model.ParseRole(string(u.Role))
	if err != nil {
		log.Error().Str("username", u.Username).Str("role", string(u.Role)).Msg("login: invalid role")
		return c.loginFailed(ctx, s, next, newError(KindInvalidRole, "User role is missing or invalid!", err))
	}

	next.User = &session.Identity{ID: u.ID, Username: u.Username, Role: role}
	ev := session.EventLoginUser
	if role == model.RoleAdmin {
		ev = session.EventLoginAdmin
	}
	if err := next.Fire(ev); err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	log.Info().Str("username", u.Username).Str("role", string(role)).Msg("login succeeded")
	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	return next, v, nil
}

func (c *Controller) loginFailed(ctx context.Context, orig, next *session.Session, cerr *Error) (*session.Session, View, error) {
	if err := next.Fire(session.EventLoginFailed); err != nil {
		return c.fail(ctx, orig, orig.Clone(), sessionError(err))
	}
	return c.fail(ctx, orig, next, cerr)
}

// Signup registers a new account with role user.  The visitor stays on
// the login page and has to log in afterwards.
func (c *Controller) Signup(ctx context.Context, s *session.Session, in Credentials) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PageLogin {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}
	in = in.normalize()
	if err := c.validate.Struct(in); err != nil {
		return c.fail(ctx, s, next, newError(KindValidation, formMessage(err), err))
	}

	err := c.Users.Create(ctx, in.Username, in.Password)
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return c.fail(ctx, s, next, newError(KindDuplicateUsername, "Username already exists!", err))
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return c.fail(ctx, s, next, newError(KindValidation, "password must be at most 72 bytes", err))
	case err != nil:
		return c.storageFail(s, err)
	}
	logging.Ctx(ctx).Info().Str("username", in.Username).Msg("signup succeeded")

	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	v.Message = "Signup successful! Please login."
	return next, v, nil
}

// Logout clears the whole session and returns to the login page.  It is
// offered on the movie list and the admin dashboard.
func (c *Controller) Logout(ctx context.Context, s *session.Session) (*session.Session, View, error) {
	next := s.Clone()
	if err := next.Fire(session.EventLogout); err != nil {
		return c.fail(ctx, s, next, sessionError(err))
	}
	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	return next, v, nil
}
