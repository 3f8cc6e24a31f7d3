package mcp_test

import (
	"context"
	"fmt"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/slack"
)

// fakeClient is a programmable workspace.Client. Unset hooks fail loudly so
// a test never silently exercises an operation it did not mean to.
type fakeClient struct {
	authTest       func(ctx context.Context) (*workspace.AuthInfo, error)
	workspaceInfo  func(ctx context.Context) (*workspace.Workspace, error)
	listChannels   func(ctx context.Context, opts workspace.ChannelListOptions) ([]workspace.Channel, error)
	channelHistory func(ctx context.Context, channelID string, opts workspace.HistoryOptions) ([]workspace.Message, error)
	postMessage    func(ctx context.Context, channel, text string, opts workspace.PostMessageOptions) (*workspace.Message, error)
	userInfo       func(ctx context.Context, userID string) (*workspace.User, error)
	listUsers      func(ctx context.Context, limit int) ([]workspace.User, error)

	calls []string
}

var _ workspace.Client = (*fakeClient)(nil)

func (f *fakeClient) AuthTest(ctx context.Context) (*workspace.AuthInfo, error) {
	f.calls = append(f.calls, "AuthTest")
	if f.authTest == nil {
		return nil, fmt.Errorf("unexpected AuthTest call")
	}
	return f.authTest(ctx)
}

func (f *fakeClient) WorkspaceInfo(ctx context.Context) (*workspace.Workspace, error) {
	f.calls = append(f.calls, "WorkspaceInfo")
	if f.workspaceInfo == nil {
		return nil, fmt.Errorf("unexpected WorkspaceInfo call")
	}
	return f.workspaceInfo(ctx)
}

func (f *fakeClient) ListChannels(ctx context.Context, opts workspace.ChannelListOptions) ([]workspace.Channel, error) {
	f.calls = append(f.calls, "ListChannels")
	if f.listChannels == nil {
		return nil, fmt.Errorf("unexpected ListChannels call")
	}
	return f.listChannels(ctx, opts)
}

func (f *fakeClient) ChannelHistory(ctx context.Context, channelID string, opts workspace.HistoryOptions) ([]workspace.Message, error) {
	f.calls = append(f.calls, "ChannelHistory")
	if f.channelHistory == nil {
		return nil, fmt.Errorf("unexpected ChannelHistory call")
	}
	return f.channelHistory(ctx, channelID, opts)
}

func (f *fakeClient) PostMessage(ctx context.Context, channel, text string, opts workspace.PostMessageOptions) (*workspace.Message, error) {
	f.calls = append(f.calls, "PostMessage")
	if f.postMessage == nil {
		return nil, fmt.Errorf("unexpected PostMessage call")
	}
	return f.postMessage(ctx, channel, text, opts)
}

func (f *fakeClient) UserInfo(ctx context.Context, userID string) (*workspace.User, error) {
	f.calls = append(f.calls, "UserInfo")
	if f.userInfo == nil {
		return nil, fmt.Errorf("unexpected UserInfo call")
	}
	return f.userInfo(ctx, userID)
}

func (f *fakeClient) ListUsers(ctx context.Context, limit int) ([]workspace.User, error) {
	f.calls = append(f.calls, "ListUsers")
	if f.listUsers == nil {
		return nil, fmt.Errorf("unexpected ListUsers call")
	}
	return f.listUsers(ctx, limit)
}

func ptr[T any](v T) *T { return &v }

func apiError(method, code string) *slack.APIError {
	return &slack.APIError{Method: method, Code: code}
}

func staticChannels(channels ...workspace.Channel) func(context.Context, workspace.ChannelListOptions) ([]workspace.Channel, error) {
	return func(context.Context, workspace.ChannelListOptions) ([]workspace.Channel, error) {
		return channels, nil
	}
}
