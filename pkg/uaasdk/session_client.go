package uaasdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CreateClient registers an external client. Requires ROLE_ADMIN.
func (s *Session) CreateClient(ctx context.Context, req ClientRequest) (*ClientSummary, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/clients", body, headers)
	if err != nil {
		return nil, err
	}

	var summary ClientSummary
	if err := decodeJSON(resp, &summary, http.StatusCreated); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdateClient replaces the validity and, when given, the secret of an
// external client. Requires ROLE_ADMIN.
func (s *Session) UpdateClient(ctx context.Context, req ClientRequest) (*ClientSummary, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/clients", body, headers)
	if err != nil {
		return nil, err
	}

	var summary ClientSummary
	if err := decodeJSON(resp, &summary, http.StatusOK); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetClient fetches one client by id. Requires ROLE_ADMIN.
func (s *Session) GetClient(ctx context.Context, clientID string) (*ClientSummary, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/clients/"+url.PathEscape(clientID), nil, nil)
	if err != nil {
		return nil, err
	}

	var summary ClientSummary
	if err := decodeJSON(resp, &summary, http.StatusOK); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListClients returns one page of external clients. Requires ROLE_ADMIN.
func (s *Session) ListClients(ctx context.Context, page, size int) (*ClientPage, error) {
	q := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/clients?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	total, _ := strconv.ParseInt(resp.Header.Get("X-Total-Count"), 10, 64)

	out := &ClientPage{Total: total, Page: page, Size: size}
	if err := decodeJSON(resp, &out.Clients, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteClient removes an external client. Protected ids are silently kept.
// Requires ROLE_ADMIN.
func (s *Session) DeleteClient(ctx context.Context, clientID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/clients/"+url.PathEscape(clientID), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
