package http

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
)

var errBaseURLNotAllowed = uaasdk.NewOAuth2Error(http.StatusBadRequest, uaasdk.ErrorCodeInvalidRequest, "base_url is not allowed")

// UsersHandler serves user administration and the account flows.
type UsersHandler struct {
	UserService     *service.UserService
	AllowedBaseURLs []string
}

// HandleCreate handles POST /v1/users
//
//	@Summary		Create user
//	@Description	Creates an activated account and emails the user a link to choose a password.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		uaasdk.CreateUserRequest	true	"login, email, authorities"
//	@Success		201		{object}	uaasdk.UserResponse
//	@Failure		400		{object}	uaasdk.ErrorResponse
//	@Failure		401		{object}	uaasdk.ErrorResponse
//	@Failure		403		{object}	uaasdk.ErrorResponse
//	@Failure		409		{object}	uaasdk.ErrorResponse	"login or email in use"
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uaasdk.CreateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		uaasdk.ErrInvalidJSONBody.WriteError(w)
		return
	}
	baseURL, ok := h.baseURL(r, req.BaseURL)
	if !ok {
		errBaseURLNotAllowed.WriteError(w)
		return
	}

	u, err := h.UserService.CreateUser(ctx, domain.NewUser{
		Login:       req.Login,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		LangKey:     req.LangKey,
		Authorities: req.Authorities,
	}, baseURL)
	if err != nil {
		writeUserError(w, r, "failed to create user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(u))
}

// HandleAccount handles GET /v1/account
//
//	@Summary		Current account
//	@Description	Returns the user identified by the user_id claim of the access token.
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	uaasdk.UserResponse
//	@Failure		401	{object}	uaasdk.ErrorResponse
//	@Failure		404	{object}	uaasdk.ErrorResponse
//	@Failure		500	{object}	uaasdk.ErrorResponse
//	@Router			/v1/account [get].
func (h *UsersHandler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		uaasdk.NewOAuth2Error(http.StatusUnauthorized, uaasdk.ErrorCodeInvalidToken, "token does not identify a user").WriteError(w)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			uaasdk.ErrUserNotFound.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("failed to load user", "err", err, "user_id", claims.UserID)
		uaasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandleRegister handles POST /v1/account/register
//
//	@Summary		Register
//	@Description	Creates an inactive account and emails an activation link.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		uaasdk.RegisterRequest	true	"login, email, password"
//	@Success		201		{object}	uaasdk.UserResponse
//	@Failure		400		{object}	uaasdk.ErrorResponse
//	@Failure		409		{object}	uaasdk.ErrorResponse	"login or email in use"
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/account/register [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uaasdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		uaasdk.ErrInvalidJSONBody.WriteError(w)
		return
	}
	baseURL, ok := h.baseURL(r, req.BaseURL)
	if !ok {
		errBaseURLNotAllowed.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, service.RegisterInput{
		NewUser: domain.NewUser{
			Login:     req.Login,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			LangKey:   req.LangKey,
		},
		Password: req.Password,
	}, baseURL)
	if err != nil {
		writeUserError(w, r, "failed to register user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse(u))
}

// HandleActivate handles GET /v1/account/activate
//
//	@Summary		Activate account
//	@Tags			Account
//	@Produce		json
//	@Param			key	query		string	true	"activation key from the email"
//	@Success		200	{object}	uaasdk.UserResponse
//	@Failure		400	{object}	uaasdk.ErrorResponse	"invalid or expired key"
//	@Failure		500	{object}	uaasdk.ErrorResponse
//	@Router			/v1/account/activate [get].
func (h *UsersHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Activate(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		writeUserError(w, r, "failed to activate user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandleResetInit handles POST /v1/account/reset-password/init
//
//	@Summary		Request password reset
//	@Description	Emails a reset link when an activated account owns the address. The response does not reveal whether it does.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body	uaasdk.ResetPasswordInitRequest	true	"mail, base_url"
//	@Success		200		"accepted"
//	@Failure		400		{object}	uaasdk.ErrorResponse
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/account/reset-password/init [post].
func (h *UsersHandler) HandleResetInit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uaasdk.ResetPasswordInitRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Mail) == "" {
		uaasdk.ErrInvalidRequest.WriteError(w)
		return
	}
	baseURL, ok := h.baseURL(r, req.BaseURL)
	if !ok {
		errBaseURLNotAllowed.WriteError(w)
		return
	}

	if err := h.UserService.RequestPasswordReset(ctx, req.Mail, baseURL); err != nil {
		slogx.FromContext(ctx).Error("failed to request password reset", "err", err)
		uaasdk.ErrServerError.WriteError(w)
		return
	}

	writeEmptyOK(w)
}

// HandleResetFinish handles POST /v1/account/reset-password/finish
//
//	@Summary		Finish password reset
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body	uaasdk.ResetPasswordFinishRequest	true	"key, new_password"
//	@Success		200		"password changed"
//	@Failure		400		{object}	uaasdk.ErrorResponse	"invalid key or weak password"
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/account/reset-password/finish [post].
func (h *UsersHandler) HandleResetFinish(w http.ResponseWriter, r *http.Request) {
	var req uaasdk.ResetPasswordFinishRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		uaasdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	if err := h.UserService.FinishPasswordReset(r.Context(), req.Key, req.NewPassword); err != nil {
		writeUserError(w, r, "failed to finish password reset", err)
		return
	}

	writeEmptyOK(w)
}

// baseURL picks the link prefix for account emails: the body value, then
// X-Forwarded-Proto and X-Forwarded-Host, then the request itself. ok is
// false when an explicit value is malformed or not on the allow list. A
// derived value not on the allow list is replaced by its first entry.
func (h *UsersHandler) baseURL(r *http.Request, explicit string) (string, bool) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		explicit = strings.TrimSuffix(explicit, "/")
		u, err := url.Parse(explicit)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", false
		}
		if len(h.AllowedBaseURLs) > 0 && !slices.Contains(h.AllowedBaseURLs, explicit) {
			return "", false
		}
		return explicit, true
	}

	derived := RequestBaseURL(r)
	if len(h.AllowedBaseURLs) > 0 && !slices.Contains(h.AllowedBaseURLs, derived) {
		slogx.FromContext(r.Context()).Warn("derived base url not allowed, using default",
			"base_url", derived, "default", h.AllowedBaseURLs[0])
		return h.AllowedBaseURLs[0], true
	}
	return derived, true
}

// RequestBaseURL derives scheme://host for r, honouring the first value of
// X-Forwarded-Proto and X-Forwarded-Host.
func RequestBaseURL(r *http.Request) string {
	scheme := firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := firstHeaderValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}

func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

func writeUserError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		uaasdk.NewOAuth2Error(http.StatusBadRequest, uaasdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidResetKey):
		uaasdk.NewOAuth2Error(http.StatusBadRequest, uaasdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrLoginInUse), errors.Is(err, service.ErrEmailInUse):
		uaasdk.NewOAuth2Error(http.StatusConflict, uaasdk.ErrorCodeConflict, err.Error()).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(msg, "err", err)
		uaasdk.ErrServerError.WriteError(w)
	}
}

func writeEmptyOK(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

func userResponse(u domain.User) uaasdk.UserResponse {
	authorities := u.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	return uaasdk.UserResponse{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		LangKey:     u.LangKey,
		Authorities: authorities,
		Activated:   u.Activated,
		CreatedAt:   u.CreatedAt,
	}
}
