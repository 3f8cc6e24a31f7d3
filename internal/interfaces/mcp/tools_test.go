package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/interfaces/mcp"
)

func callTool(t *testing.T, h *mcp.ToolHandler, name string, args map[string]any) *mcp.ToolResult {
	t.Helper()
	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		require.NoError(t, err)
		raw = data
	}
	return h.Call(context.Background(), name, raw)
}

func resultText(t *testing.T, res *mcp.ToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	assert.Equal(t, "text", res.Content[0].Type)
	return res.Content[0].Text
}

func TestCatalog_Order(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	var names []string
	for _, tool := range h.Catalog() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}
	assert.Equal(t, []string{
		"post_message",
		"get_channel_history",
		"list_channels",
		"get_user_info",
		"list_users",
		"search_messages",
	}, names)
}

func TestPostMessage_ByChannelID(t *testing.T) {
	client := &fakeClient{
		postMessage: func(_ context.Context, channel, text string, opts workspace.PostMessageOptions) (*workspace.Message, error) {
			assert.Equal(t, "C001", channel)
			assert.Equal(t, "hello", text)
			assert.Equal(t, "", opts.ThreadTS)
			return &workspace.Message{TS: "1700000000.000100", Channel: channel, Text: text}, nil
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "post_message", map[string]any{"channel": "C001", "text": "hello"})
	assert.False(t, res.IsError)
	assert.Equal(t,
		"Message posted successfully to channel C001\nTimestamp: 1700000000.000100\nText: hello",
		resultText(t, res))
	// A raw channel id must not trigger name resolution.
	assert.NotContains(t, client.calls, "ListChannels")
}

func TestPostMessage_ResolvesChannelName(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(
			workspace.Channel{ID: "C001", Name: "general"},
			workspace.Channel{ID: "C002", Name: "dev"},
		),
		postMessage: func(_ context.Context, channel, text string, _ workspace.PostMessageOptions) (*workspace.Message, error) {
			assert.Equal(t, "C002", channel)
			return &workspace.Message{TS: "1.0", Channel: channel, Text: text}, nil
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "post_message", map[string]any{"channel": "#dev", "text": "hi"})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "channel C002")
}

func TestPostMessage_ChannelNotFound(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(workspace.Channel{ID: "C001", Name: "general"}),
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "post_message", map[string]any{"channel": "#nope", "text": "hi"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Channel #nope not found", resultText(t, res))
	assert.NotContains(t, client.calls, "PostMessage")
}

func TestPostMessage_MissingArguments(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	res := callTool(t, h, "post_message", map[string]any{"channel": "C001"})
	assert.True(t, res.IsError)
}

func TestGetChannelHistory_FormatsLines(t *testing.T) {
	client := &fakeClient{
		channelHistory: func(_ context.Context, channelID string, opts workspace.HistoryOptions) ([]workspace.Message, error) {
			assert.Equal(t, 2, opts.Limit)
			return []workspace.Message{
				{TS: "2.0", Channel: channelID, Text: "newest", User: ptr("U001")},
				{TS: "1.0", Channel: channelID, Text: "reply", User: ptr("U002"), ThreadTS: ptr("0.5")},
			}, nil
		},
		userInfo: func(_ context.Context, userID string) (*workspace.User, error) {
			if userID == "U001" {
				return &workspace.User{ID: userID, Name: "alice", DisplayName: ptr("Alice")}, nil
			}
			return nil, apiError("users.info", "user_not_found")
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "get_channel_history", map[string]any{"channel": "C001", "limit": 2})
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Retrieved 2 messages from channel C001:\n\n")
	assert.Contains(t, text, "[2.0] (Alice): newest")
	// Failed user lookup degrades to the raw id; thread replies are marked.
	assert.Contains(t, text, "[1.0] (U002): reply (reply to 0.5)")
}

func TestGetChannelHistory_LimitValidation(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	res := callTool(t, h, "get_channel_history", map[string]any{"channel": "C001", "limit": 5000})
	assert.True(t, res.IsError)
	assert.Equal(t, "limit must be between 1 and 1000, got 5000", resultText(t, res))

	res = callTool(t, h, "get_channel_history", map[string]any{"channel": "C001", "limit": 0})
	assert.True(t, res.IsError)
}

func TestListChannels_Defaults(t *testing.T) {
	client := &fakeClient{
		listChannels: func(_ context.Context, opts workspace.ChannelListOptions) ([]workspace.Channel, error) {
			assert.True(t, opts.ExcludeArchived)
			assert.Equal(t, 100, opts.Limit)
			return []workspace.Channel{
				{ID: "C001", Name: "general", Topic: ptr("hq")},
				{ID: "C002", Name: "secret", IsPrivate: true},
			}, nil
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "list_channels", nil)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Found 2 channels:\n\n")
	assert.Contains(t, text, "#general (public) - hq")
	assert.Contains(t, text, "#secret (private)")
}

func TestGetUserInfo_Card(t *testing.T) {
	client := &fakeClient{
		userInfo: func(_ context.Context, userID string) (*workspace.User, error) {
			assert.Equal(t, "U001", userID)
			return &workspace.User{
				ID: "U001", Name: "alice",
				RealName: ptr("Alice Smith"),
				Timezone: ptr("America/New_York"),
			}, nil
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "get_user_info", map[string]any{"user_id": "U001"})
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "User Information:")
	assert.Contains(t, text, "Real Name: Alice Smith")
	// Absent optionals render as N/A.
	assert.Contains(t, text, "Display Name: N/A")
	assert.Contains(t, text, "Email: N/A")
}

func TestListUsers_Summary(t *testing.T) {
	client := &fakeClient{
		listUsers: func(_ context.Context, limit int) ([]workspace.User, error) {
			assert.Equal(t, 100, limit)
			return []workspace.User{
				{ID: "U001", Name: "alice", DisplayName: ptr("Alice"), IsAdmin: true},
				{ID: "U002", Name: "robo", IsBot: true},
			}, nil
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "list_users", nil)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Found 2 users:\n\n")
	assert.Contains(t, text, "Alice (@alice) (admin)")
	assert.Contains(t, text, "robo (@robo) (bot)")
}

func TestSearchMessages_StubNeverCallsAPI(t *testing.T) {
	client := &fakeClient{}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "search_messages", map[string]any{"query": "deploy"})
	assert.False(t, res.IsError)
	assert.Equal(t,
		"Message search is not yet implemented. Would search for: 'deploy' (limit: 20)",
		resultText(t, res))
	assert.Empty(t, client.calls)
}

func TestSearchMessages_CountValidation(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	res := callTool(t, h, "search_messages", map[string]any{"query": "x", "count": 500})
	assert.True(t, res.IsError)
	assert.Equal(t, "count must be between 1 and 100, got 500", resultText(t, res))
}

func TestUnknownTool(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	res := callTool(t, h, "delete_everything", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "Unknown tool: delete_everything", resultText(t, res))
}

func TestAPIErrorSurfacesInResult(t *testing.T) {
	client := &fakeClient{
		listUsers: func(context.Context, int) ([]workspace.User, error) {
			return nil, apiError("users.list", "invalid_auth")
		},
	}
	h := mcp.NewToolHandler(client, testLogger())

	res := callTool(t, h, "list_users", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Slack API error:")
	assert.Contains(t, resultText(t, res), "invalid_auth")
}

func TestMalformedArguments(t *testing.T) {
	h := mcp.NewToolHandler(&fakeClient{}, testLogger())

	res := h.Call(context.Background(), "post_message", json.RawMessage(`{"channel": 42}`))
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Invalid arguments for post_message")
}
