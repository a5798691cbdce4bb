package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
)

// TokenHandler serves POST /v1/oauth2/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues access tokens for the client_credentials, password and refresh_token grants.
//	@Description	Clients authenticate with HTTP Basic or with client_id and client_secret form fields.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(client_credentials, password, refresh_token)
//	@Param			username		formData	string					false	"Login (password grant)"
//	@Param			password		formData	string					false	"Password (password grant)"
//	@Param			refresh_token	formData	string					false	"Refresh token (refresh_token grant)"
//	@Param			client_id		formData	string					false	"Client identifier when not using HTTP Basic"
//	@Param			client_secret	formData	string					false	"Client secret when not using HTTP Basic"
//	@Param			scope			formData	string					false	"Space-delimited list of scopes"
//	@Success		200				{object}	uaasdk.TokenResponse	"access_token, token_type, expires_in, scope, jti"
//	@Failure		400				{object}	uaasdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	uaasdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	uaasdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/v1/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		uaasdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		uaasdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	clientID, clientSecret, basic := clientCredentials(r)
	req := service.TokenRequest{
		GrantType:    r.PostForm.Get("grant_type"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     strings.TrimSpace(r.PostForm.Get("username")),
		Password:     r.PostForm.Get("password"),
		RefreshToken: r.PostForm.Get("refresh_token"),
		Scope:        strings.Fields(r.PostForm.Get("scope")),
	}

	if !hasGrantParams(req) {
		uaasdk.ErrInvalidRequest.WriteError(w)
		return
	}

	resp, err := h.TokenService.Exchange(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			if basic {
				w.Header().Set("WWW-Authenticate", `Basic realm="uaa"`)
			}
			uaasdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidGrant):
			uaasdk.ErrInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrUnauthorizedClient):
			uaasdk.ErrUnauthorizedClient.WriteError(w)
		case errors.Is(err, service.ErrUnsupportedGrantType):
			uaasdk.ErrUnsupportedGrantType.WriteError(w)
		case errors.Is(err, service.ErrInvalidScope):
			uaasdk.ErrInvalidScope.WriteError(w)
		default:
			log.Error("token grant failed", "err", err, "grant_type", req.GrantType, "client_id", clientID)
			uaasdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uaasdk.TokenResponse(resp))
}

// clientCredentials prefers HTTP Basic (RFC 6749 section 2.3.1), whose
// values are form encoded, over the client_id and client_secret fields.
func clientCredentials(r *http.Request) (id, secret string, basic bool) {
	if u, p, ok := r.BasicAuth(); ok {
		if uu, err := url.QueryUnescape(u); err == nil {
			u = uu
		}
		if pp, err := url.QueryUnescape(p); err == nil {
			p = pp
		}
		return u, p, true
	}
	return strings.TrimSpace(r.PostForm.Get("client_id")), r.PostForm.Get("client_secret"), false
}

func hasGrantParams(req service.TokenRequest) bool {
	switch req.GrantType {
	case "":
		return false
	case domain.GrantPassword:
		return req.Username != "" && req.Password != ""
	case domain.GrantRefreshToken:
		return req.RefreshToken != ""
	default:
		return true
	}
}

// tokenRateKey buckets token requests by caller IP and client id.
func tokenRateKey(r *http.Request) string {
	if id, _, ok := r.BasicAuth(); ok {
		return httpx.ClientIP(r) + "|" + id
	}
	return httpx.FormField("client_id")(r)
}
