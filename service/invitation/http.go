package invitation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type httpService struct {
	base   string
	client *http.Client
	token  string
}

// HTTPService returns a Service backed by the spaces HTTP API rooted at
// base. A nil client falls back to http.DefaultClient; timeouts are the
// client's concern.
func HTTPService(base, token string, client *http.Client) Service {
	if client == nil {
		client = http.DefaultClient
	}

	return &httpService{
		base:   strings.TrimRight(base, "/"),
		client: client,
		token:  token,
	}
}

func (s *httpService) Accept(ctx context.Context, id string) (*Invitation, error) {
	i := &Invitation{}

	err := s.do(ctx, http.MethodPost, fmt.Sprintf("/invitations/%s/accept", url.PathEscape(id)), nil, i)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (s *httpService) Create(ctx context.Context, input CreateInput) (*Invitation, error) {
	i := &Invitation{}

	err := s.do(ctx, http.MethodPost, "/invitations", input, i)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (s *httpService) CreateBulk(
	ctx context.Context,
	spaceID string,
	inputs []BulkInput,
) (*BulkResult, error) {
	payload := struct {
		Invitations []BulkInput `json:"invitations"`
	}{
		Invitations: inputs,
	}

	res := &BulkResult{}

	err := s.do(
		ctx,
		http.MethodPost,
		fmt.Sprintf("/spaces/%s/invitations/bulk", url.PathEscape(spaceID)),
		payload,
		res,
	)
	if err != nil {
		return nil, err
	}

	if res.Successful == nil {
		res.Successful = List{}
	}

	if res.Failed == nil {
		res.Failed = []BulkFailure{}
	}

	return res, nil
}

func (s *httpService) Decline(ctx context.Context, id string) (*Invitation, error) {
	i := &Invitation{}

	err := s.do(ctx, http.MethodPost, fmt.Sprintf("/invitations/%s/decline", url.PathEscape(id)), nil, i)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (s *httpService) JoinByCode(ctx context.Context, code string) (*Invitation, error) {
	payload := struct {
		Code string `json:"code"`
	}{
		Code: code,
	}

	i := &Invitation{}

	err := s.do(ctx, http.MethodPost, "/invitations/join", payload, i)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (s *httpService) Pending(ctx context.Context) (List, error) {
	return s.list(ctx, "/invitations/pending")
}

func (s *httpService) Resend(ctx context.Context, id string) (*Invitation, error) {
	i := &Invitation{}

	err := s.do(ctx, http.MethodPost, fmt.Sprintf("/invitations/%s/resend", url.PathEscape(id)), nil, i)
	if err != nil {
		return nil, err
	}

	return i, nil
}

func (s *httpService) Revoke(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/invitations/%s", url.PathEscape(id)), nil, nil)
}

func (s *httpService) Space(ctx context.Context, spaceID string) (List, error) {
	return s.list(ctx, fmt.Sprintf("/spaces/%s/invitations", url.PathEscape(spaceID)))
}

func (s *httpService) Stats(ctx context.Context, spaceID string) (Stats, error) {
	stats := Stats{}

	err := s.do(
		ctx,
		http.MethodGet,
		fmt.Sprintf("/spaces/%s/invitations/stats", url.PathEscape(spaceID)),
		nil,
		&stats,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *httpService) ValidateCode(ctx context.Context, code string) (*CodeValidation, error) {
	v := &CodeValidation{}

	err := s.do(ctx, http.MethodGet, fmt.Sprintf("/invitations/codes/%s", url.PathEscape(code)), nil, v)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (s *httpService) list(ctx context.Context, path string) (List, error) {
	envelope := struct {
		Invitations List `json:"invitations"`
	}{}

	err := s.do(ctx, http.MethodGet, path, nil, &envelope)
	if err != nil {
		return nil, err
	}

	if envelope.Invitations == nil {
		envelope.Invitations = List{}
	}

	return envelope.Invitations, nil
}

func (s *httpService) do(
	ctx context.Context,
	method, path string,
	payload, out interface{},
) error {
	var body *bytes.Buffer

	if payload != nil {
		body = &bytes.Buffer{}

		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return wrapError(ErrInvalidRequest, "encode payload: %s", err)
		}
	}

	var (
		req *http.Request
		err error
	)

	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, s.base+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.base+path, nil)
	}
	if err != nil {
		return wrapError(ErrInvalidRequest, "%s", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return wrapError(ErrNetwork, "%s", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return ErrorFromStatus(res.StatusCode, serverMessage(res))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return wrapError(ErrUnknown, "decode response: %s", err)
	}

	return nil
}

func serverMessage(res *http.Response) string {
	envelope := struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}{}

	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return ""
	}

	if len(envelope.Errors) == 0 {
		return ""
	}

	return envelope.Errors[0].Message
}
