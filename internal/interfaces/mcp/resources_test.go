package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/interfaces/mcp"
)

func testLogger() logging.Logger {
	return logging.New(io.Discard, logging.NewTextFormatter())
}

func TestResourceList_StaticAndPerChannel(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(
			workspace.Channel{ID: "C001", Name: "general", IsGeneral: true},
			workspace.Channel{ID: "C002", Name: "random"},
		),
	}
	h := mcp.NewResourceHandler(client, testLogger())

	resources := h.List(context.Background())
	require.Len(t, resources, 7)

	// Static entries first, in declaration order.
	assert.Equal(t, "slack://channels", resources[0].URI)
	assert.Equal(t, "slack://users", resources[1].URI)
	assert.Equal(t, "slack://workspace", resources[2].URI)

	// Then one info and one history resource per channel, in API order.
	assert.Equal(t, "slack://channels/C001", resources[3].URI)
	assert.Equal(t, "#general", resources[3].Name)
	assert.Equal(t, "slack://channels/C001/history", resources[4].URI)
	assert.Equal(t, "slack://channels/C002", resources[5].URI)
	assert.Equal(t, "slack://channels/C002/history", resources[6].URI)

	for _, r := range resources {
		assert.Equal(t, "application/json", r.Type)
	}
}

func TestResourceList_FailSoft(t *testing.T) {
	client := &fakeClient{
		listChannels: func(context.Context, workspace.ChannelListOptions) ([]workspace.Channel, error) {
			return nil, apiError("conversations.list", "invalid_auth")
		},
	}
	h := mcp.NewResourceHandler(client, testLogger())

	resources := h.List(context.Background())
	require.Len(t, resources, 1)
	assert.Equal(t, "slack://error", resources[0].URI)
	assert.Equal(t, "text/plain", resources[0].Type)
	assert.Contains(t, resources[0].Description, "Error accessing Slack API:")
	assert.Contains(t, resources[0].Description, "invalid_auth")
}

func TestResourceRead_Channels(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(
			workspace.Channel{ID: "C001", Name: "general", Topic: ptr("announcements"), MemberCount: ptr(42)},
			workspace.Channel{ID: "C002", Name: "random", Topic: ptr("")},
		),
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://channels")
	require.Equal(t, "application/json", mime)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "general", docs[0]["name"])
	assert.Equal(t, float64(42), docs[0]["member_count"])
	// An empty topic is present, a missing one is null.
	assert.Equal(t, "", docs[1]["topic"])
	assert.Nil(t, docs[1]["member_count"])
}

func TestResourceRead_ChannelInfo(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(
			workspace.Channel{ID: "C001", Name: "general"},
			workspace.Channel{ID: "C002", Name: "dev", IsPrivate: true},
		),
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://channels/C002")
	require.Equal(t, "application/json", mime)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "C002", doc["id"])
	assert.Equal(t, true, doc["is_private"])
}

func TestResourceRead_ChannelInfoNotFound(t *testing.T) {
	client := &fakeClient{
		listChannels: staticChannels(workspace.Channel{ID: "C001", Name: "general"}),
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://channels/C999")
	assert.Equal(t, "text/plain", mime)
	assert.Contains(t, body, "Unexpected error:")
	assert.Contains(t, body, "channel C999 not found")
}

func TestResourceRead_History(t *testing.T) {
	client := &fakeClient{
		channelHistory: func(_ context.Context, channelID string, opts workspace.HistoryOptions) ([]workspace.Message, error) {
			assert.Equal(t, "C001", channelID)
			assert.Equal(t, 50, opts.Limit)
			return []workspace.Message{
				{TS: "1700000000.000100", Channel: channelID, Text: "hello", User: ptr("U001"),
					Reactions: []map[string]any{}, Attachments: []map[string]any{}, Files: []map[string]any{}},
			}, nil
		},
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://channels/C001/history")
	require.Equal(t, "application/json", mime)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &docs))
	require.Len(t, docs, 1)
	// ts is exposed under the "timestamp" key and stays an opaque string.
	assert.Equal(t, "1700000000.000100", docs[0]["timestamp"])
	assert.Equal(t, "U001", docs[0]["user"])
}

func TestResourceRead_APIErrorBecomesText(t *testing.T) {
	client := &fakeClient{
		workspaceInfo: func(context.Context) (*workspace.Workspace, error) {
			return nil, apiError("team.info", "ratelimited")
		},
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://workspace")
	assert.Equal(t, "text/plain", mime)
	assert.Contains(t, body, "Error reading resource:")
	assert.Contains(t, body, "ratelimited")
}

func TestResourceRead_UnknownURIs(t *testing.T) {
	h := mcp.NewResourceHandler(&fakeClient{}, testLogger())

	for _, uri := range []string{
		"slack://nope",
		"slack://channels/",
		"slack://channels//history",
		"slack://channels/C1/extra/history",
		"other://channels",
	} {
		body, mime := h.Read(context.Background(), uri)
		assert.Equal(t, "text/plain", mime, uri)
		assert.Contains(t, body, "unknown resource URI", uri)
	}
}

func TestResourceRead_Users(t *testing.T) {
	client := &fakeClient{
		listUsers: func(_ context.Context, limit int) ([]workspace.User, error) {
			assert.Equal(t, 0, limit)
			return []workspace.User{
				{ID: "U001", Name: "alice", RealName: ptr("Alice Smith"), ProfileImage: ptr("https://img")},
			}, nil
		},
	}
	h := mcp.NewResourceHandler(client, testLogger())

	body, mime := h.Read(context.Background(), "slack://users")
	require.Equal(t, "application/json", mime)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Alice Smith", docs[0]["real_name"])
	// The profile image never surfaces in the resource document.
	_, present := docs[0]["profile_image"]
	assert.False(t, present)
}
