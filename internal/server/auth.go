package server

import (
	"errors"
	"log/slog"
	"time"

	"reso/internal/auth/google"
	"reso/internal/middleware"
	"reso/internal/models"
	"reso/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired rejects requests without a live session cookie. A store
// failure rejects too.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(s.config.SessionCookieName)
		if token == "" {
			return respondError(c, models.NewUnauthenticatedError("Session cookie missing"))
		}

		session, err := s.sessions.Validate(c.UserContext(), token)
		if err != nil {
			return respondError(c, models.NewInternalError(err))
		}
		if session == nil {
			return respondError(c, models.NewUnauthenticatedError("Invalid or expired session"))
		}

		c.Locals("userID", session.UserID)
		c.Locals("session", session)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), session.UserID))
		return c.Next()
	}
}

// optionalUserID resolves the viewer from the session cookie without rejecting.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	token := c.Cookies(s.config.SessionCookieName)
	if token == "" {
		return 0, false
	}
	session, err := s.sessions.Validate(c.UserContext(), token)
	if err != nil || session == nil {
		return 0, false
	}
	return session.UserID, true
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: s.config.CookieSameSite(),
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: s.config.CookieSameSite(),
	})
}

// GoogleLogin handles GET /api/auth/google
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if !s.google.Configured() {
		return respondError(c, models.NewServiceUnavailableError("Google login is not configured", google.ErrNotConfigured))
	}
	state, err := s.stateSigner.Issue()
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(s.google.AuthorizationURL(state), fiber.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := s.stateSigner.Verify(c.Query("state")); err != nil {
		return respondError(c, models.NewUnauthenticatedError("Invalid OAuth state"))
	}
	code := c.Query("code")
	if code == "" {
		return respondError(c, models.NewValidationError("Missing authorization code"))
	}

	accessToken, err := s.google.Exchange(ctx, code)
	if err != nil {
		return s.oauthFailure(c, err)
	}
	profile, err := s.google.UserInfo(ctx, accessToken)
	if err != nil {
		return s.oauthFailure(c, err)
	}

	res, err := s.authService.GoogleLogin(ctx, service.GoogleLoginInput{
		Email:         profile.Email,
		EmailVerified: profile.VerifiedEmail,
		Name:          profile.Name,
		Picture:       profile.Picture,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.setSessionCookie(c, res.Token, res.ExpiresAt)
	return c.Redirect(s.config.FrontendURL, fiber.StatusFound)
}

func (s *Server) oauthFailure(c *fiber.Ctx, err error) error {
	middleware.Logger.WarnContext(c.UserContext(), "google oauth failed", slog.String("error", err.Error()))
	if errors.Is(err, google.ErrNotConfigured) {
		return respondError(c, models.NewServiceUnavailableError("Google login is not configured", err))
	}
	return respondError(c, models.NewUnauthenticatedError("Google login failed"))
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(c.UserContext(), c.Cookies(s.config.SessionCookieName)); err != nil {
		return respondError(c, err)
	}
	s.clearSessionCookie(c)
	return respondOK(c, "Logged out", nil)
}

// LogoutAll handles POST /api/auth/logout-all
func (s *Server) LogoutAll(c *fiber.Ctx) error {
	n, err := s.sessions.RevokeAll(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	s.clearSessionCookie(c)
	return respondOK(c, "Logged out everywhere", fiber.Map{"revoked": n})
}
