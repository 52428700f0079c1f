package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/api/metrics"
	"github.com/shopfront/shop-api/internal/api/middleware"
	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

const maxLoginBody = 64 << 10

type AuthHandler struct {
	auth         ports.AuthService
	cookieSecure bool
	log          zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, cookieSecure bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure, log: log}
}

// Login authenticates with email and password, or refreshes an access token.
//
// A body carrying both access_token and refresh_token is a refresh request
// and additionally needs an Authorization: Bearer header.
//
// @Summary      Login or refresh
// @Tags         auth
// @Accept       json
// @Produce      json
// @Produce      plain
// @Param        body  body      loginRequest     true  "Credentials or token pair"
// @Success      200   {object}  loginResponse
// @Success      200   {object}  refreshResponse
// @Failure      401   {string}  string           "Failure reason"
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxLoginBody))
	if err != nil || json.Unmarshal(body, &req) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("parse_error", string(h.auth.Mode())).Inc()
		return h.unauthorized(c, domain.ErrParse)
	}

	if req.isRefresh() {
		return h.refresh(c, req)
	}
	return h.login(c, req)
}

func (h *AuthHandler) login(c echo.Context, req loginRequest) error {
	mode := string(h.auth.Mode())

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		if domain.IsAuthFailure(err) {
			metrics.LoginAttemptsTotal.WithLabelValues(failureLabel(err), mode).Inc()
			return h.unauthorized(c, err)
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error", mode).Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success", mode).Inc()

	resp := loginResponse{User: toIdentityResponse(result.Identity)}

	if result.SessionID != "" {
		c.SetCookie(h.cookie(middleware.SessionCookieName, result.SessionID))
		return c.JSON(http.StatusOK, resp)
	}

	if result.ServiceToken != "" {
		c.SetCookie(h.cookie(middleware.ServiceCookieName, result.ServiceToken))
		metrics.ServiceCookiesIssuedTotal.Inc()
	}
	resp.AccessToken = result.AccessToken
	resp.RefreshToken = result.RefreshToken
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) refresh(c echo.Context, req loginRequest) error {
	result, err := h.auth.Refresh(c.Request().Context(), ports.RefreshInput{
		AuthorizationHeader: c.Request().Header.Get(echo.HeaderAuthorization),
		AccessToken:         req.AccessToken,
		RefreshToken:        req.RefreshToken,
		RemoteIP:            c.RealIP(),
	})
	if err != nil {
		if domain.IsAuthFailure(err) {
			metrics.TokenRefreshesTotal.WithLabelValues(failureLabel(err)).Inc()
			return h.unauthorized(c, err)
		}
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, refreshResponse{AccessToken: result.AccessToken})
}

// Logout drops the session and the auth cookies. Issued tokens stay valid
// until they expire.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := ""
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.auth.Logout(c.Request().Context(), sessionID, c.RealIP()); err != nil {
		return err
	}

	c.SetCookie(middleware.ExpireCookie(middleware.ServiceCookieName, h.cookieSecure))
	c.SetCookie(middleware.ExpireCookie(middleware.SessionCookieName, h.cookieSecure))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// unauthorized writes the failure reason as a plain-text 401 body.
func (h *AuthHandler) unauthorized(c echo.Context, err error) error {
	h.log.Debug().Err(err).Str("remote_ip", c.RealIP()).Msg("authentication failed")
	return c.String(http.StatusUnauthorized, failureMessage(err))
}

var failureLabels = []struct {
	err   error
	label string
}{
	{domain.ErrParse, "parse_error"},
	{domain.ErrMissingAuthHeader, "missing_auth_header"},
	{domain.ErrRefreshTokenInvalid, "refresh_token_invalid"},
	{domain.ErrSubjectMismatch, "subject_mismatch"},
	{domain.ErrUserNotFound, "user_not_found"},
	{domain.ErrBadCredentials, "bad_credentials"},
	{domain.ErrRefreshUnsupported, "refresh_unsupported"},
	{domain.ErrTokenMalformed, "token_malformed"},
}

func failureLabel(err error) string {
	for _, f := range failureLabels {
		if errors.Is(err, f.err) {
			return f.label
		}
	}
	return "error"
}

// failureMessage returns the sentinel's message so wrapped parser details
// never reach the client.
func failureMessage(err error) string {
	for _, f := range failureLabels {
		if errors.Is(err, f.err) {
			return f.err.Error()
		}
	}
	return err.Error()
}
