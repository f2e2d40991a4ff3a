package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/pkg/apisdk"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
)

// AuthHandler serves the token lifecycle endpoints.
type AuthHandler struct {
	Sessions *service.SessionService
	Cookies  httpx.CookieConfig

	// TrustProxy makes audit records use X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// HandleLogin handles POST /login
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access token (15 minutes) and a refresh token (1 day).
//	@Description	Both are returned in the body and set as HttpOnly cookies.
//	@Tags			Session
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Param			request	body		apisdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	apisdk.LoginResponse	"tokens"
//	@Failure		400		{object}	apisdk.ErrorResponse	"missing fields"
//	@Failure		401		{object}	apisdk.ErrorResponse	"invalid credentials"
//	@Router			/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req apisdk.LoginRequest
	if err := decode(w, r, &req, "Username and password are required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	pair, err := h.Sessions.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Source:   httpx.ClientIP(r, h.TrustProxy),
	})
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		httpx.WriteError(w, r, httpx.BadRequest("Username and password are required"))
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, r, &httpx.Error{Status: http.StatusUnauthorized, Message: "Invalid username or password", Err: err})
		return
	case err != nil:
		httpx.WriteError(w, r, httpx.Internal(err))
		return
	}

	h.Cookies.SetToken(w, httpx.AccessTokenCookie, pair.AccessToken, pair.AccessTTL)
	h.Cookies.SetToken(w, httpx.RefreshTokenCookie, pair.RefreshToken, pair.RefreshTTL)
	httpx.NoCache(w)

	httpx.Write(w, r, http.StatusOK, apisdk.LoginResponse{
		Message:      "Login Successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.AccessTTL.Seconds()),
		Links: httpx.Links{
			"self":    httpx.Post("/login"),
			"refresh": httpx.Post("/refresh-token"),
			"logout":  httpx.Post("/logout"),
		},
	})
}

// HandleRefresh handles POST /refresh-token
//
//	@Summary		Refresh the access token
//	@Description	Reads the refresh token from the refresh_token cookie, or from the body when there is no cookie.
//	@Description	The refresh token is not rotated.
//	@Tags			Session
//	@Accept			json
//	@Produce		json,xml,yaml,plain
//	@Param			request	body		apisdk.RefreshRequest	false	"Refresh token when not using cookies"
//	@Success		200		{object}	apisdk.RefreshResponse	"new access token"
//	@Failure		401		{object}	apisdk.ErrorResponse	"missing or invalid refresh token"
//	@Router			/refresh-token [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(httpx.RefreshTokenCookie); err == nil && c.Value != "" {
		token = c.Value
	} else {
		var req apisdk.RefreshRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		token = req.RefreshToken
	}

	grant, err := h.Sessions.Refresh(r.Context(), token, httpx.ClientIP(r, h.TrustProxy))
	switch {
	case errors.Is(err, service.ErrMissingToken):
		httpx.WriteError(w, r, httpx.Unauthorized("Refresh token missing"))
		return
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, r, httpx.Unauthorized("Invalid token"))
		return
	case err != nil:
		httpx.WriteError(w, r, httpx.Internal(err))
		return
	}

	h.Cookies.SetToken(w, httpx.AccessTokenCookie, grant.AccessToken, grant.TTL)
	httpx.NoCache(w)

	httpx.Write(w, r, http.StatusOK, apisdk.RefreshResponse{
		Message:     "Token refreshed",
		AccessToken: grant.AccessToken,
		ExpiresIn:   int(grant.TTL.Seconds()),
		Links: httpx.Links{
			"self": httpx.Post("/refresh-token"),
			"me":   httpx.Get("/me"),
		},
	})
}

// HandleLogout handles POST /logout
//
//	@Summary		Log out
//	@Description	Expires both token cookies. Tokens are not revoked server side.
//	@Tags			Session
//	@Produce		json,xml,yaml,plain
//	@Success		200	{object}	apisdk.MessageResponse
//	@Router			/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context(), httpx.IdentityFrom(r.Context()), httpx.ClientIP(r, h.TrustProxy))

	h.Cookies.Clear(w, httpx.AccessTokenCookie)
	h.Cookies.Clear(w, httpx.RefreshTokenCookie)
	httpx.NoCache(w)

	httpx.Write(w, r, http.StatusOK, apisdk.MessageResponse{
		Message: "Logged out successfully",
		Links:   httpx.Links{"login": httpx.Post("/login")},
	})
}

// HandleMe handles GET /me
//
//	@Summary		Current identity
//	@Tags			Session
//	@Produce		json,xml,yaml,plain
//	@Security		BearerAuth
//	@Success		200	{object}	apisdk.MeResponse
//	@Failure		401	{object}	apisdk.ErrorResponse
//	@Router			/me [get]
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id := httpx.IdentityFrom(r.Context())
	if id == nil {
		httpx.WriteError(w, r, httpx.Unauthorized("Not Authorised"))
		return
	}

	httpx.Write(w, r, http.StatusOK, apisdk.MeResponse{
		ID:       id.ID,
		Username: id.Username,
		Role:     string(id.Role),
		Scopes:   authz.Strings(id.Scopes),
	})
}
