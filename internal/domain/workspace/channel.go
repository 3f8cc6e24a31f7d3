// Package workspace holds the domain records the adapter exchanges with
// Slack: channels, users, messages and the workspace itself. All of them
// are immutable value snapshots — constructed from an API response,
// serialized, discarded. There is no cross-call identity beyond the
// natural keys (id, ts).
package workspace

// Channel is a Slack conversation (public or private).
//
// Identity is the id; the name is mutable on the Slack side and must not
// be assumed unique across renames within a session. Optional fields are
// pointers so that an absent value round-trips as JSON null.
type Channel struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	IsPrivate   bool    `json:"is_private"`
	IsArchived  bool    `json:"is_archived"`
	IsGeneral   bool    `json:"is_general"`
	Topic       *string `json:"topic"`
	Purpose     *string `json:"purpose"`
	MemberCount *int    `json:"member_count"`
}
