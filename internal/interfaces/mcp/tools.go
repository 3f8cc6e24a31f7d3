package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/protocol"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
)

// ContentBlock is one element of a tool result. This adapter only ever
// emits text blocks: the primary consumer is a language-driven agent, so
// every answer is assembled as a human-readable string.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the error-flagged envelope every tool invocation returns.
// Failures are carried in-band: IsError plus readable text, never a Go
// error crossing the handler boundary.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResult(format string, args ...any) *ToolResult {
	return &ToolResult{Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}}}
}

func errorResult(format string, args ...any) *ToolResult {
	res := textResult(format, args...)
	res.IsError = true
	return res
}

// ToolHandler declares the tool catalog and dispatches calls against the
// workspace client. It holds no per-call state; channel name resolution is
// repeated on every call by design.
type ToolHandler struct {
	client  workspace.Client
	logger  logging.Logger
	catalog []protocol.Tool
}

func NewToolHandler(client workspace.Client, logger logging.Logger) *ToolHandler {
	return &ToolHandler{
		client:  client,
		logger:  logger,
		catalog: buildCatalog(),
	}
}

// Catalog returns the static tool catalog, defined once at construction.
func (h *ToolHandler) Catalog() []protocol.Tool {
	return h.catalog
}

func buildCatalog() []protocol.Tool {
	return []protocol.Tool{
		{
			Name:        "post_message",
			Description: "Post a message to a Slack channel",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"channel": {
						"type": "string",
						"description": "Channel ID or name (e.g., #general, C1234567890)"
					},
					"text": {
						"type": "string",
						"description": "Message text to post"
					},
					"thread_ts": {
						"type": "string",
						"description": "Optional: Reply to a thread by providing the parent message timestamp"
					}
				},
				"required": ["channel", "text"]
			}`),
		},
		{
			Name:        "get_channel_history",
			Description: "Get message history from a Slack channel",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"channel": {
						"type": "string",
						"description": "Channel ID or name (e.g., #general, C1234567890)"
					},
					"limit": {
						"type": "integer",
						"description": "Number of messages to retrieve (default: 50, max: 1000)",
						"minimum": 1,
						"maximum": 1000,
						"default": 50
					},
					"oldest": {
						"type": "string",
						"description": "Optional: Only messages after this timestamp"
					},
					"latest": {
						"type": "string",
						"description": "Optional: Only messages before this timestamp"
					}
				},
				"required": ["channel"]
			}`),
		},
		{
			Name:        "list_channels",
			Description: "List all accessible Slack channels",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"exclude_archived": {
						"type": "boolean",
						"description": "Whether to exclude archived channels (default: true)",
						"default": true
					},
					"limit": {
						"type": "integer",
						"description": "Maximum number of channels to return (default: 100)",
						"minimum": 1,
						"maximum": 1000,
						"default": 100
					}
				},
				"required": []
			}`),
		},
		{
			Name:        "get_user_info",
			Description: "Get information about a Slack user",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"user_id": {
						"type": "string",
						"description": "User ID (e.g., U1234567890)"
					}
				},
				"required": ["user_id"]
			}`),
		},
		{
			Name:        "list_users",
			Description: "List all users in the Slack workspace",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"limit": {
						"type": "integer",
						"description": "Maximum number of users to return (default: 100)",
						"minimum": 1,
						"maximum": 1000,
						"default": 100
					}
				},
				"required": []
			}`),
		},
		{
			Name:        "search_messages",
			Description: "Search for messages in Slack (requires search scope)",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {
						"type": "string",
						"description": "Search query (supports Slack search syntax)"
					},
					"count": {
						"type": "integer",
						"description": "Number of results to return (default: 20, max: 100)",
						"minimum": 1,
						"maximum": 100,
						"default": 20
					}
				},
				"required": ["query"]
			}`),
		},
	}
}

// Call dispatches a (name, arguments) pair to the matching tool. An
// unrecognized name yields an error-flagged result, not an error.
func (h *ToolHandler) Call(ctx context.Context, name string, args json.RawMessage) *ToolResult {
	res := h.dispatch(ctx, name, args)
	if res.IsError {
		h.logger.Error("tool call failed", logging.String("tool", name),
			logging.String("detail", resultText(res)))
	}
	return res
}

func (h *ToolHandler) dispatch(ctx context.Context, name string, args json.RawMessage) *ToolResult {
	switch name {
	case "post_message":
		return h.postMessage(ctx, args)
	case "get_channel_history":
		return h.getChannelHistory(ctx, args)
	case "list_channels":
		return h.listChannels(ctx, args)
	case "get_user_info":
		return h.getUserInfo(ctx, args)
	case "list_users":
		return h.listUsers(ctx, args)
	case "search_messages":
		return h.searchMessages(ctx, args)
	default:
		return errorResult("Unknown tool: %s", name)
	}
}

func resultText(res *ToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	return res.Content[0].Text
}

// decodeArgs unmarshals tool arguments, tolerating an empty payload.
func decodeArgs(name string, args json.RawMessage, target any) *ToolResult {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, target); err != nil {
		return errorResult("Invalid arguments for %s: %v", name, err)
	}
	return nil
}

// resolveChannel turns a "#name" reference into a channel id by listing
// all channels and matching on exact, case-sensitive name equality. Raw
// ids pass through untouched. Resolution happens on every call; names are
// mutable so nothing is cached.
func (h *ToolHandler) resolveChannel(ctx context.Context, ref string) (string, *ToolResult) {
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	channels, err := h.client.ListChannels(ctx, workspace.ChannelListOptions{ExcludeArchived: true})
	if err != nil {
		return "", errorResult("Slack API error: %v", err)
	}
	name := strings.TrimPrefix(ref, "#")
	for _, ch := range channels {
		if ch.Name == name {
			return ch.ID, nil
		}
	}
	return "", errorResult("Channel %s not found", ref)
}

type postMessageInput struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts"`
}

func (h *ToolHandler) postMessage(ctx context.Context, args json.RawMessage) *ToolResult {
	var input postMessageInput
	if res := decodeArgs("post_message", args, &input); res != nil {
		return res
	}
	if input.Channel == "" || input.Text == "" {
		return errorResult("post_message requires both channel and text")
	}

	channelID, res := h.resolveChannel(ctx, input.Channel)
	if res != nil {
		return res
	}

	msg, err := h.client.PostMessage(ctx, channelID, input.Text, workspace.PostMessageOptions{
		ThreadTS: input.ThreadTS,
	})
	if err != nil {
		return errorResult("Slack API error: %v", err)
	}

	return textResult("Message posted successfully to channel %s\nTimestamp: %s\nText: %s",
		channelID, msg.TS, msg.Text)
}

type channelHistoryInput struct {
	Channel string `json:"channel"`
	Limit   *int   `json:"limit"`
	Oldest  string `json:"oldest"`
	Latest  string `json:"latest"`
}

func (h *ToolHandler) getChannelHistory(ctx context.Context, args json.RawMessage) *ToolResult {
	var input channelHistoryInput
	if res := decodeArgs("get_channel_history", args, &input); res != nil {
		return res
	}
	if input.Channel == "" {
		return errorResult("get_channel_history requires a channel")
	}
	limit := historyReadLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < 1 || limit > 1000 {
		return errorResult("limit must be between 1 and 1000, got %d", limit)
	}

	channelID, res := h.resolveChannel(ctx, input.Channel)
	if res != nil {
		return res
	}

	messages, err := h.client.ChannelHistory(ctx, channelID, workspace.HistoryOptions{
		Limit:  limit,
		Oldest: input.Oldest,
		Latest: input.Latest,
	})
	if err != nil {
		return errorResult("Slack API error: %v", err)
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		author := ""
		if msg.User != nil {
			// Best-effort display name; the raw id is good enough when the
			// lookup fails.
			if user, uerr := h.client.UserInfo(ctx, *msg.User); uerr == nil {
				author = fmt.Sprintf(" (%s)", user.Label())
			} else {
				author = fmt.Sprintf(" (%s)", *msg.User)
			}
		}
		line := fmt.Sprintf("[%s]%s: %s", msg.TS, author, msg.Text)
		if msg.ThreadTS != nil {
			line += fmt.Sprintf(" (reply to %s)", *msg.ThreadTS)
		}
		lines = append(lines, line)
	}

	return textResult("Retrieved %d messages from channel %s:\n\n%s",
		len(messages), channelID, strings.Join(lines, "\n"))
}

type listChannelsInput struct {
	ExcludeArchived *bool `json:"exclude_archived"`
	Limit           *int  `json:"limit"`
}

func (h *ToolHandler) listChannels(ctx context.Context, args json.RawMessage) *ToolResult {
	var input listChannelsInput
	if res := decodeArgs("list_channels", args, &input); res != nil {
		return res
	}
	excludeArchived := true
	if input.ExcludeArchived != nil {
		excludeArchived = *input.ExcludeArchived
	}
	limit := 100
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < 1 || limit > 1000 {
		return errorResult("limit must be between 1 and 1000, got %d", limit)
	}

	channels, err := h.client.ListChannels(ctx, workspace.ChannelListOptions{
		Limit:           limit,
		ExcludeArchived: excludeArchived,
	})
	if err != nil {
		return errorResult("Slack API error: %v", err)
	}
	// The client follows cursors to the end; limit caps the answer.
	if len(channels) > limit {
		channels = channels[:limit]
	}

	lines := make([]string, 0, len(channels))
	for _, ch := range channels {
		privacy := "public"
		if ch.IsPrivate {
			privacy = "private"
		}
		archived := ""
		if ch.IsArchived {
			archived = " (archived)"
		}
		topic := ""
		if ch.Topic != nil && *ch.Topic != "" {
			topic = " - " + *ch.Topic
		}
		lines = append(lines, fmt.Sprintf("#%s (%s)%s%s", ch.Name, privacy, archived, topic))
	}

	return textResult("Found %d channels:\n\n%s", len(channels), strings.Join(lines, "\n"))
}

type userInfoInput struct {
	UserID string `json:"user_id"`
}

func (h *ToolHandler) getUserInfo(ctx context.Context, args json.RawMessage) *ToolResult {
	var input userInfoInput
	if res := decodeArgs("get_user_info", args, &input); res != nil {
		return res
	}
	if input.UserID == "" {
		return errorResult("get_user_info requires a user_id")
	}

	user, err := h.client.UserInfo(ctx, input.UserID)
	if err != nil {
		return errorResult("Slack API error: %v", err)
	}

	return textResult("User Information:\nID: %s\nUsername: %s\nReal Name: %s\nDisplay Name: %s\nEmail: %s\nIs Bot: %t\nIs Admin: %t\nTimezone: %s",
		user.ID,
		user.Name,
		orNA(user.RealName),
		orNA(user.DisplayName),
		orNA(user.Email),
		user.IsBot,
		user.IsAdmin,
		orNA(user.Timezone),
	)
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

type listUsersInput struct {
	Limit *int `json:"limit"`
}

func (h *ToolHandler) listUsers(ctx context.Context, args json.RawMessage) *ToolResult {
	var input listUsersInput
	if res := decodeArgs("list_users", args, &input); res != nil {
		return res
	}
	limit := 100
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < 1 || limit > 1000 {
		return errorResult("limit must be between 1 and 1000, got %d", limit)
	}

	users, err := h.client.ListUsers(ctx, limit)
	if err != nil {
		return errorResult("Slack API error: %v", err)
	}
	if len(users) > limit {
		users = users[:limit]
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		bot := ""
		if u.IsBot {
			bot = " (bot)"
		}
		admin := ""
		if u.IsAdmin {
			admin = " (admin)"
		}
		lines = append(lines, fmt.Sprintf("%s (@%s)%s%s", u.Label(), u.Name, bot, admin))
	}

	return textResult("Found %d users:\n\n%s", len(users), strings.Join(lines, "\n"))
}

type searchMessagesInput struct {
	Query string `json:"query"`
	Count *int   `json:"count"`
}

// searchMessages is a declared stub: search.messages needs the search:read
// scope which bot tokens don't get, so this never calls the client. It
// answers with a non-error placeholder describing what it would have done.
func (h *ToolHandler) searchMessages(_ context.Context, args json.RawMessage) *ToolResult {
	var input searchMessagesInput
	if res := decodeArgs("search_messages", args, &input); res != nil {
		return res
	}
	if input.Query == "" {
		return errorResult("search_messages requires a query")
	}
	count := 20
	if input.Count != nil {
		count = *input.Count
	}
	if count < 1 || count > 100 {
		return errorResult("count must be between 1 and 100, got %d", count)
	}

	return textResult("Message search is not yet implemented. Would search for: '%s' (limit: %d)",
		input.Query, count)
}
