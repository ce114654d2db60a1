package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/brackethq/bracket/internal"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/metrics"
)

// Client makes requests to the bracket API. The zero value is not usable, URL
// must be set to the API root (ex: https://bracket.example.com/api).
type Client struct {
	// Name and Version identify the program using the client in the
	// User-Agent header.
	Name    string
	Version string

	URL       string
	AccessKey string
	HTTP      http.Client

	// OnUnauthorized is called when the authority responds with 401.
	OnUnauthorized func()
}

type Query map[string][]string

func (c Client) buildRequest(ctx context.Context, method, path string, query Query, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.URL, "/")+path, body)
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = url.Values(query).Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("Bracket/%v (%v %v; %v/%v)",
		internal.FullVersion(), c.Name, c.Version, runtime.GOOS, runtime.GOARCH))
	if c.AccessKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessKey)
	}
	return req, nil
}

func (c Client) do(req *http.Request) ([]byte, error) {
	logging.Debugf("call server: %s %s", req.Method, req.URL.Path)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		apiError := newError(req, resp.StatusCode, body)
		logging.Debugf("%s %s responded %d: %s", req.Method, req.URL.Path, resp.StatusCode, apiError)
		return nil, apiError
	}
	return body, nil
}

func decode[Res any](body []byte) (*Res, error) {
	var res Res
	if len(bytes.TrimSpace(body)) == 0 {
		return &res, nil
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing json response: %w. partial text: %q", err, partialText(body, 100))
	}
	return &res, nil
}

func get[Res any](ctx context.Context, client Client, path string, query Query) (*Res, error) {
	req, err := client.buildRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	body, err := client.do(req)
	if err != nil {
		return nil, err
	}
	return decode[Res](body)
}

func request[Req, Res any](ctx context.Context, client Client, method string, path string, req *Req) (*Res, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}

	httpReq, err := client.buildRequest(ctx, method, path, nil, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	body, err := client.do(httpReq)
	if err != nil {
		return nil, err
	}
	return decode[Res](body)
}

func post[Req, Res any](ctx context.Context, client Client, path string, req *Req) (*Res, error) {
	return request[Req, Res](ctx, client, http.MethodPost, path, req)
}

// postForm sends values as application/x-www-form-urlencoded, which is what
// the token endpoint accepts.
func postForm[Res any](ctx context.Context, client Client, path string, values url.Values) (*Res, error) {
	req, err := client.buildRequest(ctx, http.MethodPost, path, nil, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := client.do(req)
	if err != nil {
		return nil, err
	}
	return decode[Res](body)
}

func delete(ctx context.Context, client Client, path string, query Query) error {
	req, err := client.buildRequest(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return err
	}
	_, err = client.do(req)
	return err
}

func (c Client) RequestPasswordReset(ctx context.Context, req *PasswordResetRequest) (*PasswordResetResponse, error) {
	ctx = metrics.WithOperation(ctx, "request_password_reset")
	return post[PasswordResetRequest, PasswordResetResponse](ctx, c, "/auth/request-password-reset", req)
}

func (c Client) CompletePasswordReset(ctx context.Context, req *CompletePasswordResetRequest) (*SuccessResponse, error) {
	ctx = metrics.WithOperation(ctx, "complete_password_reset")
	return post[CompletePasswordResetRequest, SuccessResponse](ctx, c, "/auth/reset-password", req)
}

func (c Client) ListCollaborators(ctx context.Context, club ClubID) (*DataResponse[Collaborator], error) {
	ctx = metrics.WithOperation(ctx, "list_collaborators")
	return get[DataResponse[Collaborator]](ctx, c, fmt.Sprintf("/clubs/%d/collaborators", club), Query{})
}

func (c Client) AddCollaborator(ctx context.Context, req *AddCollaboratorRequest) (*SuccessResponse, error) {
	ctx = metrics.WithOperation(ctx, "add_collaborator")
	return post[AddCollaboratorRequest, SuccessResponse](ctx, c, fmt.Sprintf("/clubs/%d/collaborators", req.ClubID), req)
}

func (c Client) RemoveCollaborator(ctx context.Context, club ClubID, user UserID) error {
	ctx = metrics.WithOperation(ctx, "remove_collaborator")
	return delete(ctx, c, fmt.Sprintf("/clubs/%d/collaborators/%d", club, user), Query{})
}

func (c Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	ctx = metrics.WithOperation(ctx, "login")
	return postForm[LoginResponse](ctx, c, "/token", url.Values{
		"username": {req.Email},
		"password": {req.Password},
	})
}

func partialText(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}

	return string(body[:limit]) + "..."
}
