// Package auth owns the client's session: the service that talks to the
// identity endpoints and the state container every view reads from.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tavolo/tavolo/pkg/http"
	"github.com/tavolo/tavolo/pkg/logger"
	"github.com/tavolo/tavolo/pkg/store"
)

// Session is what a successful login leaves behind.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials identify an account by phone number or email.
type Credentials struct {
	PhoneOrEmail string
	Password     string
}

// RegisterForm carries the signup fields. Validation mirrors what the
// form enforces; the backend re-validates everything.
type RegisterForm struct {
	Name                 string `json:"name"                  validate:"required,min=2,max=50"`
	PhoneNumber          string `json:"phone_number"          validate:"required,phone"`
	Email                string `json:"email"                 validate:"nullable,email"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// ProfileForm carries the editable profile fields.
type ProfileForm struct {
	Name  string `json:"name"  validate:"nullable,min=2,max=50"`
	Phone string `json:"phone" validate:"nullable,phone"`
	Email string `json:"email" validate:"nullable,email"`
}

// Service turns auth domain actions into API calls and mirrors the
// resulting session into the store. No transport error escapes a method
// as anything other than a normalized message.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Login exchanges credentials for a session. On success the token and
// user record are persisted before the session is returned.
func (s *Service) Login(ctx context.Context, cred Credentials) (*Session, error) {
	body := map[string]string{
		"phone_number_or_email": cred.PhoneOrEmail,
		"password":              cred.Password,
	}

	resp, err := http.Post("/users/login").WithContext(ctx).Body(body).Send()
	if err != nil {
		return nil, errors.New("unable to reach the server, please try again")
	}

	var out struct {
		apiStatus
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Role   string `json:"role"`
		Token  string `json:"token"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() || !out.Success {
		return nil, errors.New(out.firstError("login failed"))
	}

	user := User{ID: out.UserID, Name: out.Name, Role: Role(out.Role)}
	if strings.Contains(cred.PhoneOrEmail, "@") {
		user.Email = cred.PhoneOrEmail
	} else {
		user.Phone = cred.PhoneOrEmail
	}

	token := out.Token
	if token == "" {
		// The backend does not hand out tokens; the session marker is a
		// locally generated opaque string with no cryptographic meaning.
		token = newLocalToken()
	}

	if err := s.store.Set(store.KeyAuthToken, token); err != nil {
		logger.Warn("auth: persisting token failed", "error", err)
	}
	if err := s.store.Set(store.KeyAuthUser, user); err != nil {
		logger.Warn("auth: persisting user failed", "error", err)
	}

	return &Session{Token: token, User: user}, nil
}

// Register creates an account. Backend validation failures come back
// verbatim, first message when the backend returns a list.
func (s *Service) Register(ctx context.Context, form RegisterForm) (string, error) {
	body := map[string]string{
		"name":             form.Name,
		"phone_number":     form.PhoneNumber,
		"email":            form.Email,
		"password":         form.Password,
		"confirm_password": form.PasswordConfirmation,
	}

	resp, err := http.Post("/users/signup").WithContext(ctx).Body(body).Send()
	if err != nil {
		return "", errors.New("unable to reach the server, please try again")
	}

	var out struct {
		apiStatus
		Name string `json:"name"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() || !out.Success {
		return "", errors.New(out.firstError("registration failed"))
	}

	msg := out.Message
	if msg == "" {
		msg = "account created"
	}
	return msg, nil
}

// Logout notifies the backend on a best-effort basis, then
// unconditionally clears the local session. A failed remote call never
// leaves stale session data behind.
func (s *Service) Logout(ctx context.Context, token string) {
	if token != "" {
		if _, err := http.Post("/users/logout").WithContext(ctx).Bearer(token).Send(); err != nil {
			logger.Debug("auth: remote logout failed, clearing locally anyway", "error", err)
		}
	}

	s.store.Remove(store.KeyAuthToken)
	s.store.Remove(store.KeyAuthUser)
}

// UpdateProfile pushes profile changes and returns the updated record.
func (s *Service) UpdateProfile(ctx context.Context, token string, form ProfileForm) (*User, error) {
	resp, err := http.Put("/users/profile").WithContext(ctx).Bearer(token).Body(form).Send()
	if err != nil {
		return nil, errors.New("unable to reach the server, please try again")
	}

	var out struct {
		apiStatus
		User User `json:"user"`
	}
	if err := resp.JSON(&out); err != nil || !resp.OK() {
		return nil, errors.New(out.firstError("profile update failed"))
	}

	if err := s.store.Set(store.KeyAuthUser, out.User); err != nil {
		logger.Warn("auth: persisting user failed", "error", err)
	}
	return &out.User, nil
}

// IsAuthenticated reports whether both a token and a user record are
// present locally. This is a liveness check only; the token is not
// validated remotely.
func (s *Service) IsAuthenticated() bool {
	var token string
	var user User
	return s.store.Get(store.KeyAuthToken, &token) && token != "" &&
		s.store.Get(store.KeyAuthUser, &user) && user.ID != ""
}

// ─── Wire error normalization ─────────────────────────────────────────────────

// apiStatus is the failure half of every identity endpoint response.
type apiStatus struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// firstError flattens a backend failure into one human-readable string:
// the first entry when the backend returned a list, the message
// otherwise, the fallback when it returned neither.
func (a apiStatus) firstError(fallback string) string {
	if len(a.Errors) > 0 && a.Errors[0] != "" {
		return a.Errors[0]
	}
	if a.Message != "" {
		return a.Message
	}
	return fallback
}

// newLocalToken generates the opaque session marker persisted alongside
// the user record.
func newLocalToken() string {
	return fmt.Sprintf("token_%d_%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
