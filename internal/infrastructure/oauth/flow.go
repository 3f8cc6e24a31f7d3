// Package oauth runs the interactive authorization-code exchange against
// Slack's OAuth endpoints. It is a boundary collaborator: the adapter core
// only ever sees the opaque bearer token this flow produces.
package oauth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/google/uuid"
)

const (
	// DefaultAuthorizeURL is where the user's browser grants access.
	DefaultAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	// DefaultAccessURL exchanges the authorization code for a token.
	DefaultAccessURL = "https://slack.com/api/oauth.v2.access"

	// Scopes the adapter needs: channel/user/team reads plus chat:write
	// for post_message.
	Scopes = "channels:read,groups:read,chat:write,users:read,team:read"

	// waitCeiling bounds how long Run waits for the user to finish the
	// browser round trip.
	waitCeiling = 5 * time.Minute
)

// Config carries the OAuth client settings. AuthorizeURL, AccessURL and
// HTTPClient exist so tests can point the flow at a fake Slack.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	ListenAddr   string

	AuthorizeURL string
	AccessURL    string
	HTTPClient   *http.Client
	Logger       logging.Logger
}

// Flow is a single-use authorization-code exchange. The state token is
// generated at construction and checked on callback; a Flow must not be
// reused across attempts.
type Flow struct {
	cfg     Config
	state   string
	tokenCh chan string
	logger  logging.Logger
}

func NewFlow(cfg Config) (*Flow, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("oauth: client id and secret are required")
	}
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.AccessURL == "" {
		cfg.AccessURL = DefaultAccessURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New(io.Discard, logging.NewTextFormatter())
	}
	return &Flow{
		cfg:     cfg,
		state:   uuid.NewString(),
		tokenCh: make(chan string, 1),
		logger:  logger,
	}, nil
}

// AuthorizeURL is the link the user opens to grant access.
func (f *Flow) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", f.cfg.ClientID)
	params.Set("scope", Scopes)
	params.Set("redirect_uri", f.cfg.RedirectURI)
	params.Set("state", f.state)
	params.Set("response_type", "code")
	return f.cfg.AuthorizeURL + "?" + params.Encode()
}

// Handler exposes the flow's route table (landing page plus callback
// endpoint) for in-process testing.
func (f *Flow) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", f.handleIndex)
	mux.HandleFunc("/auth/slack/callback", f.handleCallback)
	return mux
}

// Run serves the landing page and callback endpoint, waits for the user to
// complete the browser round trip and returns the bot token. It gives up
// after five minutes or when ctx is cancelled.
func (f *Flow) Run(ctx context.Context) (string, error) {
	srv := &http.Server{Addr: f.cfg.ListenAddr, Handler: f.Handler()}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case token := <-f.tokenCh:
		return token, nil
	case err := <-errCh:
		return "", fmt.Errorf("oauth server failed: %w", err)
	case <-time.After(waitCeiling):
		return "", fmt.Errorf("oauth flow timed out after %s", waitCeiling)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *Flow) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, f.AuthorizeURL())
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		f.logger.Error("oauth callback error", logging.String("error", errMsg))
		http.Error(w, "OAuth error: "+errMsg, http.StatusBadRequest)
		return
	}
	code := query.Get("code")
	if code == "" {
		http.Error(w, "no authorization code received", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(query.Get("state")), []byte(f.state)) != 1 {
		f.logger.Error("oauth state mismatch")
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	token, err := f.Exchange(r.Context(), code)
	if err != nil {
		f.logger.Error("token exchange failed", logging.ErrorField(err))
		http.Error(w, "token exchange failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)

	// A second callback must not block the handler.
	select {
	case f.tokenCh <- token:
	default:
	}
}

type accessResponse struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error"`
	AccessToken string `json:"access_token"`
}

// Exchange swaps an authorization code for a bot access token.
func (f *Flow) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", f.cfg.ClientID)
	form.Set("client_secret", f.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", f.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.AccessURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing exchange request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var body accessResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding exchange response: %w", err)
	}
	if !body.OK {
		return "", fmt.Errorf("token exchange rejected: %s", body.Error)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}
	return body.AccessToken, nil
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Slack MCP Server OAuth</title></head>
<body>
  <h1>Slack MCP Server OAuth</h1>
  <p>Click the link below to authorize this application with your Slack workspace:</p>
  <p><a href="%s">Add to Slack</a></p>
</body>
</html>
`

const successPage = `<!DOCTYPE html>
<html>
<head><title>Authorized</title></head>
<body>
  <h1>Success!</h1>
  <p>Authorization successful. You can close this window and return to your terminal.</p>
</body>
</html>
`
