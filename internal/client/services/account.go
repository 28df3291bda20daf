// Package services contains the account use cases of the client that sit
// next to the session: registering, editing the profile and password
// recovery.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindeducation/internal/client/api"
	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/client/notify"
	"github.com/dmitrijs2005/mindeducation/internal/client/session"
	"github.com/dmitrijs2005/mindeducation/internal/client/validation"
	"github.com/dmitrijs2005/mindeducation/internal/logging"
)

var (
	// ErrRecoveryUnavailable is returned for a valid reset request: the API
	// has no recovery endpoint.
	ErrRecoveryUnavailable = errors.New("password recovery is not available")
	ErrUnknownUser         = errors.New("user id is unknown, refresh the profile first")
)

// AccountAPI is the part of the remote API the account service calls.
type AccountAPI interface {
	Signup(ctx context.Context, req api.SignupRequest) error
	UpdateUser(ctx context.Context, id models.UserID, req api.UpdateRequest) error
}

// Session is what the account service needs from session.Manager.
type Session interface {
	State() session.State
	RefreshUser(ctx context.Context, userID models.UserID) error
}

// AccountService defines account operations for the CLI.
//
// Contract:
//   - Register: validate the form and create the user on the server.
//   - UpdateProfile: validate, update the signed-in user, then refresh the
//     cached profile.
//   - RequestPasswordReset: validate the e-mail; always ErrRecoveryUnavailable
//     when the input is valid.
type AccountService interface {
	Register(ctx context.Context, form models.RegisterForm) error
	UpdateProfile(ctx context.Context, form models.ProfileForm) error
	RequestPasswordReset(ctx context.Context, email string) error
}

type accountService struct {
	api      AccountAPI
	session  Session
	notifier notify.Notifier
	logger   logging.Logger
}

func NewAccountService(client AccountAPI, sess Session, notifier notify.Notifier, logger logging.Logger) AccountService {
	if notifier == nil {
		notifier = notify.Multi{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &accountService{api: client, session: sess, notifier: notifier, logger: logger}
}

func (s *accountService) Register(ctx context.Context, form models.RegisterForm) error {
	if err := validation.Register(form); err != nil {
		return err
	}

	req := api.SignupRequest{
		Email:    strings.TrimSpace(form.Email),
		Name:     strings.TrimSpace(form.Name),
		Cpf:      strings.TrimSpace(form.Cpf),
		Password: form.Password,
	}
	if err := s.api.Signup(ctx, req); err != nil {
		s.logger.Warn(ctx, "signup failed", "email", req.Email, "error", err)
		s.notifier.Notify(notify.Error("Error", "Could not create your account."))
		return fmt.Errorf("register: %w", err)
	}

	s.logger.Info(ctx, "account registered", "email", req.Email)
	s.notifier.Notify(notify.Success("Success", "Registration completed."))
	return nil
}

// UpdateProfile sends form for the signed-in user. The id comes from the
// cached profile, falling back to the token claims.
func (s *accountService) UpdateProfile(ctx context.Context, form models.ProfileForm) error {
	st := s.session.State()
	if !st.Authenticated() {
		return session.ErrNotAuthenticated
	}

	var id models.UserID
	if st.User != nil {
		id = st.User.ID
	}
	if id == "" {
		id = models.UserID(session.UserIDFromToken(st.Token))
	}
	if id == "" {
		return ErrUnknownUser
	}

	if err := validation.Profile(form); err != nil {
		return err
	}

	req := api.UpdateRequest{
		Email:    strings.TrimSpace(form.Email),
		Name:     strings.TrimSpace(form.Name),
		Cpf:      strings.TrimSpace(form.Cpf),
		Password: form.Password,
	}
	if err := s.api.UpdateUser(ctx, id, req); err != nil {
		s.logger.Warn(ctx, "profile update failed", "user_id", id, "error", err)
		s.notifier.Notify(notify.Error("Error", "Could not update your profile."))
		return fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info(ctx, "profile updated", "user_id", id)
	s.notifier.Notify(notify.Success("Success", "Profile updated."))

	if err := s.session.RefreshUser(ctx, id); err != nil && !errors.Is(err, session.ErrSessionChanged) {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *accountService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validation.ForgotPassword(email); err != nil {
		return err
	}
	s.logger.Info(ctx, "password reset requested", "email", strings.TrimSpace(email))
	return ErrRecoveryUnavailable
}
