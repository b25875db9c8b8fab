// Package identity is the HTTP client for the remote identity endpoint. The
// endpoint speaks a bespoke contract: POST /Authentication with the credential
// body, answering 200 with either a token payload or a literal null body for
// rejected credentials.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openkcm/login-agent/internal/serviceerr"
)

// Kind tags the application-level shape of a 200 response. Keeping Malformed
// distinct from Empty makes "non-empty but unusable" observable instead of
// silently producing empty tokens in the redirect URL.
type Kind int

const (
	KindValid Kind = iota
	KindEmpty
	KindMalformed
)

type AuthorizationResult struct {
	AccessToken  string
	RefreshToken string
}

type Response struct {
	Kind   Kind
	Result AuthorizationResult
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Authenticate posts the prepared credential body to the identity endpoint.
// Transport errors and non-2xx statuses wrap serviceerr.ErrTransportFailure;
// a 2xx answer is classified into the tagged Response.
func (c *Client) Authenticate(ctx context.Context, body []byte) (Response, error) {
	tracer := otel.Tracer("login-agent/identity")
	ctx, span := tracer.Start(ctx, "authenticate", trace.WithAttributes(
		attribute.String("identity.endpoint", c.baseURL),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Authentication", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: executing request: %w", serviceerr.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Response{}, fmt.Errorf("%w: status %d", serviceerr.ErrTransportFailure, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: reading response body: %w", serviceerr.ErrTransportFailure, err)
	}

	return classify(payload), nil
}

type authenticationResponse struct {
	AuthorizationToken *authorizationToken `json:"AuthorizationToken"`
}

type authorizationToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func classify(payload []byte) Response {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Response{Kind: KindEmpty}
	}

	var parsed authenticationResponse
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return Response{Kind: KindMalformed}
	}
	if parsed.AuthorizationToken == nil || parsed.AuthorizationToken.AccessToken == "" {
		return Response{Kind: KindMalformed}
	}

	return Response{
		Kind: KindValid,
		Result: AuthorizationResult{
			AccessToken:  parsed.AuthorizationToken.AccessToken,
			RefreshToken: parsed.AuthorizationToken.RefreshToken,
		},
	}
}
