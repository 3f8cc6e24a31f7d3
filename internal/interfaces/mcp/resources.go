// Package mcp is the protocol interface layer. It translates between MCP
// concepts (resources, tools) and the Slack workspace client, and owns the
// rule that no error ever crosses a handler boundary: every failure comes
// back as a well-formed value with readable text.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/protocol"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/slack"
)

// Resource URI grammar. Everything under slack://channels/{id} is
// synthesized per request from a fresh channel listing.
const (
	uriChannels  = "slack://channels"
	uriUsers     = "slack://users"
	uriWorkspace = "slack://workspace"
	uriError     = "slack://error"

	channelPrefix = uriChannels + "/"
	historySuffix = "/history"

	mimeJSON = "application/json"
	mimeText = "text/plain"
)

// historyReadLimit is how many recent messages a history resource read
// returns. The get_channel_history tool exposes its own caller-set limit.
const historyReadLimit = 50

// ResourceHandler resolves resource URIs into serialized Slack data.
type ResourceHandler struct {
	client workspace.Client
	logger logging.Logger
}

func NewResourceHandler(client workspace.Client, logger logging.Logger) *ResourceHandler {
	return &ResourceHandler{client: client, logger: logger}
}

// List enumerates every available resource: three static entries followed
// by an info and a history resource per channel, in page-arrival order.
//
// Enumeration is fail-soft. If the channel listing fails the partial list
// is discarded and the caller receives exactly one synthetic error
// resource, so an unreachable API still yields a well-formed listing.
func (h *ResourceHandler) List(ctx context.Context) []protocol.Resource {
	resources := []protocol.Resource{
		{
			URI:         uriChannels,
			Name:        "Slack Channels",
			Description: "List of all accessible Slack channels",
			Type:        mimeJSON,
		},
		{
			URI:         uriUsers,
			Name:        "Slack Users",
			Description: "List of all users in the workspace",
			Type:        mimeJSON,
		},
		{
			URI:         uriWorkspace,
			Name:        "Slack Workspace",
			Description: "Information about the current Slack workspace",
			Type:        mimeJSON,
		},
	}

	channels, err := h.client.ListChannels(ctx, workspace.ChannelListOptions{ExcludeArchived: true})
	if err != nil {
		h.logger.Error("resource enumeration failed", logging.ErrorField(err))
		return []protocol.Resource{{
			URI:         uriError,
			Name:        "Slack API Error",
			Description: fmt.Sprintf("Error accessing Slack API: %v", err),
			Type:        mimeText,
		}}
	}

	for _, ch := range channels {
		resources = append(resources,
			protocol.Resource{
				URI:         channelPrefix + ch.ID,
				Name:        "#" + ch.Name,
				Description: fmt.Sprintf("Messages from #%s channel", ch.Name),
				Type:        mimeJSON,
			},
			protocol.Resource{
				URI:         channelPrefix + ch.ID + historySuffix,
				Name:        fmt.Sprintf("#%s History", ch.Name),
				Description: fmt.Sprintf("Message history from #%s channel", ch.Name),
				Type:        mimeJSON,
			},
		)
	}
	return resources
}

// Read resolves a URI to its document body and MIME type. Successful reads
// are pretty-printed JSON; any failure — unknown URI, unknown channel,
// client error — becomes readable text tagged text/plain. Read never
// returns an error.
func (h *ResourceHandler) Read(ctx context.Context, uri string) (body, mime string) {
	doc, err := h.read(ctx, uri)
	if err == nil {
		return doc, mimeJSON
	}

	h.logger.Error("resource read failed", logging.String("uri", uri), logging.ErrorField(err))
	var apiErr *slack.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Error reading resource: %v", err), mimeText
	}
	return fmt.Sprintf("Unexpected error: %v", err), mimeText
}

func (h *ResourceHandler) read(ctx context.Context, uri string) (string, error) {
	switch {
	case uri == uriChannels:
		return h.readChannels(ctx)
	case uri == uriUsers:
		return h.readUsers(ctx)
	case uri == uriWorkspace:
		return h.readWorkspace(ctx)
	case strings.HasPrefix(uri, channelPrefix) && strings.HasSuffix(uri, historySuffix):
		id := strings.TrimSuffix(strings.TrimPrefix(uri, channelPrefix), historySuffix)
		if id == "" || strings.Contains(id, "/") {
			return "", fmt.Errorf("unknown resource URI: %s", uri)
		}
		return h.readChannelHistory(ctx, id)
	case strings.HasPrefix(uri, channelPrefix):
		id := strings.TrimPrefix(uri, channelPrefix)
		if id == "" || strings.Contains(id, "/") {
			return "", fmt.Errorf("unknown resource URI: %s", uri)
		}
		return h.readChannelInfo(ctx, id)
	default:
		return "", fmt.Errorf("unknown resource URI: %s", uri)
	}
}

func (h *ResourceHandler) readChannels(ctx context.Context) (string, error) {
	channels, err := h.client.ListChannels(ctx, workspace.ChannelListOptions{ExcludeArchived: true})
	if err != nil {
		return "", err
	}
	docs := make([]channelDocument, len(channels))
	for i, ch := range channels {
		docs[i] = toChannelDocument(ch)
	}
	return marshalDocument(docs)
}

func (h *ResourceHandler) readUsers(ctx context.Context) (string, error) {
	users, err := h.client.ListUsers(ctx, 0)
	if err != nil {
		return "", err
	}
	docs := make([]userDocument, len(users))
	for i, u := range users {
		docs[i] = toUserDocument(u)
	}
	return marshalDocument(docs)
}

func (h *ResourceHandler) readWorkspace(ctx context.Context) (string, error) {
	ws, err := h.client.WorkspaceInfo(ctx)
	if err != nil {
		return "", err
	}
	return marshalDocument(toWorkspaceDocument(*ws))
}

func (h *ResourceHandler) readChannelInfo(ctx context.Context, channelID string) (string, error) {
	channels, err := h.client.ListChannels(ctx, workspace.ChannelListOptions{ExcludeArchived: true})
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.ID == channelID {
			return marshalDocument(toChannelDocument(ch))
		}
	}
	return "", fmt.Errorf("channel %s not found", channelID)
}

func (h *ResourceHandler) readChannelHistory(ctx context.Context, channelID string) (string, error) {
	messages, err := h.client.ChannelHistory(ctx, channelID, workspace.HistoryOptions{Limit: historyReadLimit})
	if err != nil {
		return "", err
	}
	docs := make([]messageDocument, len(messages))
	for i, msg := range messages {
		docs[i] = toMessageDocument(msg)
	}
	return marshalDocument(docs)
}

func marshalDocument(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// --- Resource document DTOs ---

type channelDocument struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	IsPrivate   bool    `json:"is_private"`
	IsArchived  bool    `json:"is_archived"`
	IsGeneral   bool    `json:"is_general"`
	Topic       *string `json:"topic"`
	Purpose     *string `json:"purpose"`
	MemberCount *int    `json:"member_count"`
}

type userDocument struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RealName    *string `json:"real_name"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	IsBot       bool    `json:"is_bot"`
	IsAdmin     bool    `json:"is_admin"`
	Timezone    *string `json:"timezone"`
}

type workspaceDocument struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Domain         string  `json:"domain"`
	EmailDomain    *string `json:"email_domain"`
	EnterpriseID   *string `json:"enterprise_id"`
	EnterpriseName *string `json:"enterprise_name"`
}

// messageDocument exposes ts under the "timestamp" key; the token itself
// round-trips untouched.
type messageDocument struct {
	Timestamp   string           `json:"timestamp"`
	Channel     string           `json:"channel"`
	User        *string          `json:"user"`
	Text        string           `json:"text"`
	ThreadTS    *string          `json:"thread_ts"`
	ReplyCount  int              `json:"reply_count"`
	Reactions   []map[string]any `json:"reactions"`
	Attachments []map[string]any `json:"attachments"`
	Files       []map[string]any `json:"files"`
	Edited      map[string]any   `json:"edited"`
	Permalink   *string          `json:"permalink"`
}

func toChannelDocument(ch workspace.Channel) channelDocument {
	return channelDocument{
		ID:          ch.ID,
		Name:        ch.Name,
		IsPrivate:   ch.IsPrivate,
		IsArchived:  ch.IsArchived,
		IsGeneral:   ch.IsGeneral,
		Topic:       ch.Topic,
		Purpose:     ch.Purpose,
		MemberCount: ch.MemberCount,
	}
}

func toUserDocument(u workspace.User) userDocument {
	return userDocument{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    u.RealName,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		IsBot:       u.IsBot,
		IsAdmin:     u.IsAdmin,
		Timezone:    u.Timezone,
	}
}

func toWorkspaceDocument(ws workspace.Workspace) workspaceDocument {
	return workspaceDocument{
		ID:             ws.ID,
		Name:           ws.Name,
		Domain:         ws.Domain,
		EmailDomain:    ws.EmailDomain,
		EnterpriseID:   ws.EnterpriseID,
		EnterpriseName: ws.EnterpriseName,
	}
}

func toMessageDocument(msg workspace.Message) messageDocument {
	return messageDocument{
		Timestamp:   msg.TS,
		Channel:     msg.Channel,
		User:        msg.User,
		Text:        msg.Text,
		ThreadTS:    msg.ThreadTS,
		ReplyCount:  msg.ReplyCount,
		Reactions:   msg.Reactions,
		Attachments: msg.Attachments,
		Files:       msg.Files,
		Edited:      msg.Edited,
		Permalink:   msg.Permalink,
	}
}
