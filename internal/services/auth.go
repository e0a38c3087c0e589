package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akdamba/portal-backend/internal/pkg/apierr"
	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/platform/avlerinfo"
)

// Danish user-facing messages. The invalid-credentials one deliberately
// never says whether the username or the password was wrong.
const (
	MsgMissingCredentials = "Du skal udfylde både brugernavn og adgangskode."
	MsgUnknownCredentials = "Hmm, det brugernavn eller den adgangskode kender vi ikke. Prøv venligst igen."
	MsgUpstreamDown       = "Login-systemet er midlertidigt utilgængeligt. Prøv venligst igen om lidt."
	MsgNoConnection       = "Vi kan ikke forbinde til login-systemet lige nu. Prøv venligst igen om lidt."
	MsgBadUpstreamReply   = "Der opstod et problem med login-systemet. Prøv venligst igen om lidt."
	MsgNotConfigured      = "Login-systemet er ikke korrekt konfigureret. Kontakt venligst support."
)

type AuthService interface {
	// Login validates the credential pair and exchanges it upstream for an
	// opaque token plus member id.
	Login(ctx context.Context, username, password string) (*avlerinfo.LoginResult, *apierr.Error)
	// Validate resolves a cookie pair to a member profile. Any error means
	// the session is no longer good.
	Validate(ctx context.Context, userID, token string) (map[string]interface{}, error)
	// Logout invalidates the token upstream, best effort. Never fails.
	Logout(ctx context.Context, token string)
	// Probe reports whether the identity API is reachable.
	Probe(ctx context.Context) (int, error)
}

type authService struct {
	log      *logger.Logger
	identity avlerinfo.Client
}

func NewAuthService(log *logger.Logger, identity avlerinfo.Client) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		identity: identity,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*avlerinfo.LoginResult, *apierr.Error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_credentials", MsgMissingCredentials, nil)
	}
	if s.identity == nil {
		// Startup fails fast on missing ASB_API_URL; this is a guard for
		// partially wired test setups.
		return nil, apierr.New(http.StatusInternalServerError, "login_not_configured", MsgNotConfigured, nil)
	}

	res, err := s.identity.Login(ctx, username, password)
	if err != nil {
		return nil, s.mapLoginError(err)
	}
	s.log.Info("Member logged in", "user_id", res.UserID)
	return res, nil
}

func (s *authService) mapLoginError(err error) *apierr.Error {
	var he *avlerinfo.HTTPError
	switch {
	case errors.As(err, &he) && he.StatusCode >= 500:
		s.log.Error("Identity API failure during login", "status", he.StatusCode, "error", err.Error())
		return apierr.New(http.StatusBadGateway, "upstream_unavailable", MsgUpstreamDown, err)
	case errors.As(err, &he):
		// 4xx from upstream: bad credentials, one uniform answer.
		s.log.Info("Login rejected by identity API", "status", he.StatusCode)
		return apierr.New(http.StatusUnauthorized, "login_failed", MsgUnknownCredentials, err)
	case errors.Is(err, avlerinfo.ErrInvalidResponse):
		s.log.Error("Identity API returned unusable login body", "error", err.Error())
		return apierr.New(http.StatusInternalServerError, "invalid_response", MsgBadUpstreamReply, err)
	default:
		s.log.Error("Could not reach identity API for login", "error", err.Error())
		return apierr.New(http.StatusInternalServerError, "network_error", MsgNoConnection, err)
	}
}

func (s *authService) Validate(ctx context.Context, userID, token string) (map[string]interface{}, error) {
	if s.identity == nil {
		return nil, errors.New("identity client not configured")
	}
	return s.identity.Farmer(ctx, userID, token)
}

func (s *authService) Logout(ctx context.Context, token string) {
	if s.identity == nil || strings.TrimSpace(token) == "" {
		return
	}
	if err := s.identity.Logout(ctx, token); err != nil {
		// The cookies are cleared regardless; upstream invalidation is a
		// courtesy.
		s.log.Warn("Upstream logout failed", "error", err.Error())
	}
}

func (s *authService) Probe(ctx context.Context) (int, error) {
	if s.identity == nil {
		return 0, errors.New("identity client not configured")
	}
	return s.identity.Probe(ctx)
}
