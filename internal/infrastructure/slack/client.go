// Package slack wraps the Slack Web API behind the workspace.Client
// interface. This is an infrastructure concern — the handlers have no
// knowledge of HTTP, cursors or the ok/error envelope.
package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
)

// DefaultBaseURL is the production Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// maxPages bounds every cursor-following loop. Slack terminates pagination
// by returning an empty next_cursor; a misbehaving API that keeps handing
// out cursors would otherwise loop forever. At Slack's maximum page size
// this covers workspaces far larger than any real one.
const maxPages = 1000

// defaultPageSize matches the Web API default for listing calls.
const defaultPageSize = 100

// Client is a typed facade over the Slack Web API. It holds no mutable
// state beyond the immutable credential and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     logging.Logger
}

var _ workspace.Client = (*Client)(nil)

// NewClient creates a Slack client. baseURL is usually DefaultBaseURL;
// tests point it at a local fake. A nil httpClient gets a 30s-timeout
// default and a nil logger is silently discarded.
func NewClient(baseURL string, httpClient *http.Client, token string, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = logging.New(io.Discard, logging.NewTextFormatter())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
		logger:     logger,
	}
}

// AuthTest verifies the credential and reports the identity it is bound to.
func (c *Client) AuthTest(ctx context.Context) (*workspace.AuthInfo, error) {
	var resp authTestResponse
	if err := c.get(ctx, "auth.test", nil, &resp); err != nil {
		return nil, err
	}
	return &workspace.AuthInfo{
		URL:    resp.URL,
		Team:   resp.Team,
		User:   resp.User,
		TeamID: resp.TeamID,
		UserID: resp.UserID,
	}, nil
}

// WorkspaceInfo fetches team.info for the credential's workspace.
func (c *Client) WorkspaceInfo(ctx context.Context) (*workspace.Workspace, error) {
	var resp teamInfoResponse
	if err := c.get(ctx, "team.info", nil, &resp); err != nil {
		return nil, err
	}
	ws := resp.Team.toDomain()
	return &ws, nil
}

// ListChannels returns every public and private channel the credential can
// see, following cursors until the API stops returning one. Page-arrival
// order is preserved; there is no client-side sorting.
func (c *Client) ListChannels(ctx context.Context, opts workspace.ChannelListOptions) ([]workspace.Channel, error) {
	pageSize := opts.Limit
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var channels []workspace.Channel
	cursor := ""
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, &APIError{
				Method:  "conversations.list",
				Code:    codePaginationOverflow,
				Message: "next_cursor still present after " + strconv.Itoa(maxPages) + " pages",
			}
		}

		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("exclude_archived", strconv.FormatBool(opts.ExcludeArchived))
		params.Set("types", "public_channel,private_channel")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp channelListResponse
		if err := c.get(ctx, "conversations.list", params, &resp); err != nil {
			return nil, err
		}
		for _, payload := range resp.Channels {
			channels = append(channels, payload.toDomain())
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}
	return channels, nil
}

// ChannelHistory reads up to opts.Limit recent messages from a channel.
// Unlike the listing calls this is a single page, matching conversations.history.
func (c *Client) ChannelHistory(ctx context.Context, channelID string, opts workspace.HistoryOptions) ([]workspace.Message, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("limit", strconv.Itoa(limit))
	if opts.Oldest != "" {
		params.Set("oldest", opts.Oldest)
	}
	if opts.Latest != "" {
		params.Set("latest", opts.Latest)
	}

	var resp historyResponse
	if err := c.get(ctx, "conversations.history", params, &resp); err != nil {
		return nil, err
	}

	messages := make([]workspace.Message, 0, len(resp.Messages))
	for _, payload := range resp.Messages {
		messages = append(messages, payload.toDomain(channelID))
	}
	return messages, nil
}

// PostMessage posts text to a channel, optionally into a thread. This is
// the only mutating operation the client exposes and it is not idempotent:
// no deduplication token is sent, so a caller retrying a failed post
// accepts at-least-once delivery.
func (c *Client) PostMessage(ctx context.Context, channel, text string, opts workspace.PostMessageOptions) (*workspace.Message, error) {
	params := url.Values{}
	params.Set("channel", channel)
	params.Set("text", text)
	if opts.ThreadTS != "" {
		params.Set("thread_ts", opts.ThreadTS)
	}

	var resp postMessageResponse
	if err := c.postForm(ctx, "chat.postMessage", params, &resp); err != nil {
		return nil, err
	}

	msg := resp.Message.toDomain(channel)
	if msg.TS == "" {
		msg.TS = resp.TS
	}
	return &msg, nil
}

// UserInfo fetches a single user by id.
func (c *Client) UserInfo(ctx context.Context, userID string) (*workspace.User, error) {
	params := url.Values{}
	params.Set("user", userID)

	var resp userInfoResponse
	if err := c.get(ctx, "users.info", params, &resp); err != nil {
		return nil, err
	}
	user := resp.User.toDomain()
	return &user, nil
}

// ListUsers returns every non-deleted member of the workspace, following
// cursors to the end. Members flagged deleted by the API never appear.
func (c *Client) ListUsers(ctx context.Context, limit int) ([]workspace.User, error) {
	pageSize := limit
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var users []workspace.User
	cursor := ""
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, &APIError{
				Method:  "users.list",
				Code:    codePaginationOverflow,
				Message: "next_cursor still present after " + strconv.Itoa(maxPages) + " pages",
			}
		}

		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp userListResponse
		if err := c.get(ctx, "users.list", params, &resp); err != nil {
			return nil, err
		}
		for _, payload := range resp.Members {
			if payload.Deleted {
				continue
			}
			users = append(users, payload.toDomain())
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}
	return users, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, target enveloped) error {
	u := c.baseURL + "/" + method
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Method: method, Code: codeTransport, Err: err}
	}
	return c.do(method, req, target)
}

func (c *Client) postForm(ctx context.Context, method string, params url.Values, target enveloped) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method,
		strings.NewReader(params.Encode()))
	if err != nil {
		return &APIError{Method: method, Code: codeTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(method, req, target)
}

// do executes the request and classifies every failure mode — transport
// error, non-2xx status, undecodable body, ok:false envelope — into a
// single *APIError carrying the upstream code.
func (c *Client) do(method string, req *http.Request, target enveloped) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("slack api call", logging.String("method", method))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: method, Code: codeTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:  method,
			Code:    "http_" + strconv.Itoa(resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &APIError{Method: method, Code: codeInvalidResponse, Err: err}
	}

	if env := target.envelope(); !env.OK {
		code := env.Error
		if code == "" {
			code = "unknown_error"
		}
		c.logger.Debug("slack api error", logging.String("method", method), logging.String("code", code))
		return &APIError{Method: method, Code: code}
	}
	return nil
}
