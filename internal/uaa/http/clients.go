package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/uaa/internal/uaa/domain"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/aussiebroadwan/uaa/pkg/uaasdk"
)

// ClientsHandler serves the external client administration endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Create external client
//	@Description	Registers an external client with the client_credentials grant. Validity is floored to 60 seconds.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		uaasdk.ClientRequest	true	"client_id, client_secret, token_validity_seconds"
//	@Success		201		{object}	uaasdk.ClientSummary
//	@Header			201		{string}	Location	"/v1/clients/{id}"
//	@Failure		400		{object}	uaasdk.ErrorResponse	"invalid input or client id in use"
//	@Failure		401		{object}	uaasdk.ErrorResponse
//	@Failure		403		{object}	uaasdk.ErrorResponse
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uaasdk.ClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		uaasdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	summary, err := h.ClientService.CreateExternalClient(ctx, clientInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrClientIDInUse):
			uaasdk.NewOAuth2Error(http.StatusBadRequest, uaasdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		default:
			slogx.FromContext(ctx).Error("failed to create client", "err", err)
			uaasdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.Header().Set("Location", "/v1/clients/"+url.PathEscape(summary.ClientID))
	httpx.WriteJSON(w, http.StatusCreated, uaasdk.ClientSummary(summary))
}

// HandleUpdate handles PUT /v1/clients
//
//	@Summary		Update external client
//	@Description	Replaces the token validity and, when client_secret is not blank, the secret. Initial clients are reported as not found.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		uaasdk.ClientRequest	true	"client_id, client_secret, token_validity_seconds"
//	@Success		200		{object}	uaasdk.ClientSummary
//	@Failure		400		{object}	uaasdk.ErrorResponse
//	@Failure		401		{object}	uaasdk.ErrorResponse
//	@Failure		403		{object}	uaasdk.ErrorResponse
//	@Failure		404		{object}	uaasdk.ErrorResponse
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/clients [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uaasdk.ClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		uaasdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	summary, err := h.ClientService.UpdateExternalClient(ctx, clientInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			uaasdk.ErrClientNotFound.WriteError(w)
		case errors.Is(err, service.ErrValidation):
			uaasdk.NewOAuth2Error(http.StatusBadRequest, uaasdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		default:
			slogx.FromContext(ctx).Error("failed to update client", "err", err, "client_id", req.ClientID)
			uaasdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uaasdk.ClientSummary(summary))
}

// HandleList handles GET /v1/clients
//
//	@Summary		List external clients
//	@Description	Returns one page of external clients in creation order. Initial clients are never listed.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"zero based page index"
//	@Param			size	query		int	false	"page size, max 100"
//	@Success		200		{array}		uaasdk.ClientSummary
//	@Header			200		{string}	X-Total-Count	"number of external clients"
//	@Header			200		{string}	Link			"RFC 8288 pagination links"
//	@Failure		401		{object}	uaasdk.ErrorResponse
//	@Failure		403		{object}	uaasdk.ErrorResponse
//	@Failure		500		{object}	uaasdk.ErrorResponse
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := httpx.ParsePage(r, domain.DefaultPageSize, domain.MaxPageSize)
	page, err := h.ClientService.ListExternal(ctx, domain.PageRequest{Number: p.Number, Size: p.Size})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list clients", "err", err)
		uaasdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]uaasdk.ClientSummary, 0, len(page.Items))
	for _, c := range page.Items {
		out = append(out, uaasdk.ClientSummary(c))
	}

	httpx.SetPaginationHeaders(w, r.URL, p, page.Total)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary		Get client
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"client id"
//	@Success		200	{object}	uaasdk.ClientSummary
//	@Failure		401	{object}	uaasdk.ErrorResponse
//	@Failure		403	{object}	uaasdk.ErrorResponse
//	@Failure		404	{object}	uaasdk.ErrorResponse
//	@Failure		500	{object}	uaasdk.ErrorResponse
//	@Router			/v1/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := r.PathValue("id")

	summary, err := h.ClientService.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			uaasdk.ErrClientNotFound.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("failed to get client", "err", err, "client_id", clientID)
		uaasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uaasdk.ClientSummary(summary))
}

// HandleDelete handles DELETE /v1/clients/{id}
//
//	@Summary		Delete external client
//	@Description	Deletes an external client. Deleting an initial or unknown client succeeds without changing anything.
//	@Tags			Clients
//	@Security		BearerAuth
//	@Param			id	path	string	true	"client id"
//	@Success		204	"deleted"
//	@Failure		401	{object}	uaasdk.ErrorResponse
//	@Failure		403	{object}	uaasdk.ErrorResponse
//	@Failure		500	{object}	uaasdk.ErrorResponse
//	@Router			/v1/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := r.PathValue("id")

	if err := h.ClientService.DeleteExternalClient(ctx, clientID); err != nil {
		slogx.FromContext(ctx).Error("failed to delete client", "err", err, "client_id", clientID)
		uaasdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func clientInput(req uaasdk.ClientRequest) domain.ClientInput {
	return domain.ClientInput{
		ClientID:             req.ClientID,
		ClientSecret:         req.ClientSecret,
		TokenValiditySeconds: req.TokenValiditySeconds,
	}
}
