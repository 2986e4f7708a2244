package identityfb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jelajahid/jelajah/pkg/identity"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// restClient performs Identity Toolkit calls authenticated by the API key.
type restClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func newRESTClient(apiKey string, client *http.Client) *restClient {
	return &restClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     client,
	}
}

// signInResponse is the common shape of signUp and signInWithPassword replies.
type signInResponse struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
	ExpiresIn   string `json:"expiresIn"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// post calls one accounts:<action> endpoint. out may be nil when the caller
// only cares about success.
func (c *restClient) post(ctx context.Context, action string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}

	url := fmt.Sprintf("%s/accounts:%s?key=%s", c.endpoint, action, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil {
			return identity.ErrRegistry.NewWithMessage(identity.CodeProviderFailure,
				fmt.Sprintf("identity toolkit returned status %d", resp.StatusCode))
		}
		return mapRESTError(apiErr.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return identity.ErrRegistry.NewWithCause(identity.CodeProviderFailure, err)
	}
	return nil
}

// mapRESTError translates Identity Toolkit error strings into identity
// errors. The raw platform message is preserved: login failures surface it
// verbatim to the client.
func mapRESTError(message string) error {
	// Messages can arrive with a suffix, e.g. "WEAK_PASSWORD : ...".
	code := message
	if idx := strings.IndexAny(message, " :"); idx > 0 {
		code = message[:idx]
	}

	switch code {
	case "EMAIL_EXISTS":
		return identity.ErrRegistry.NewWithMessage(identity.CodeAccountExists, message)
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return identity.ErrRegistry.NewWithMessage(identity.CodeInvalidCredentials, message)
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED":
		return identity.ErrRegistry.NewWithMessage(identity.CodeInvalidToken, message)
	default:
		return identity.ErrRegistry.NewWithMessage(identity.CodeProviderFailure, message)
	}
}
