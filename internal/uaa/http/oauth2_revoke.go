package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
)

// RevokeHandler serves POST /v1/oauth2/revoke (RFC 7009). Only refresh
// tokens are revocable; access tokens expire on their own. Unknown tokens
// still get 200.
type RevokeHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Revocation Endpoint
//	@Description	Revokes a refresh token (RFC 7009). Returns 200 OK for unknown tokens too.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string	true	"The refresh token to revoke"
//	@Param			token_type_hint	formData	string	false	"Hint about token type"	Enums(access_token, refresh_token)
//	@Success		200				"Token revoked (or was already invalid)"
//	@Failure		400				{object}	uaasdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Router			/v1/oauth2/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		uaasdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		uaasdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	token := r.PostForm.Get("token")
	if token == "" {
		uaasdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if hint := r.PostForm.Get("token_type_hint"); hint == "" || hint == "refresh_token" {
		if err := h.TokenService.RevokeRefreshToken(ctx, token); err != nil {
			slogx.FromContext(ctx).Warn("revoke refresh failed", "err", err)
		}
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}
