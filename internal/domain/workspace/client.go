package workspace

import "context"

// ChannelListOptions tunes a full channel enumeration. Limit is the
// per-page size passed to the API, not a cap on the flattened result:
// listing always follows cursors to the end.
type ChannelListOptions struct {
	Limit           int
	ExcludeArchived bool
}

// HistoryOptions narrows a channel history read. Oldest and Latest are
// opaque ts tokens; empty means unbounded on that side.
type HistoryOptions struct {
	Limit  int
	Oldest string
	Latest string
}

// PostMessageOptions carries the optional parts of a message post.
type PostMessageOptions struct {
	ThreadTS string
}

// Client is the remote workspace API as the handlers see it. Implementations
// must be safe for concurrent use; all methods re-fetch from the API on
// every call — there is no cache behind this interface.
type Client interface {
	AuthTest(ctx context.Context) (*AuthInfo, error)
	WorkspaceInfo(ctx context.Context) (*Workspace, error)
	ListChannels(ctx context.Context, opts ChannelListOptions) ([]Channel, error)
	ChannelHistory(ctx context.Context, channelID string, opts HistoryOptions) ([]Message, error)
	PostMessage(ctx context.Context, channel, text string, opts PostMessageOptions) (*Message, error)
	UserInfo(ctx context.Context, userID string) (*User, error)
	ListUsers(ctx context.Context, limit int) ([]User, error)
}
