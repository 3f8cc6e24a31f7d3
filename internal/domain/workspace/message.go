package workspace

// Message is a single channel message.
//
// TS is Slack's opaque timestamp token. It doubles as the per-channel
// message identity and must round-trip exactly as a string: it is compared
// for ordering and equality only, never parsed numerically.
//
// Reactions, Attachments and Files are ordered sequences of open records;
// Slack mixes heterogeneous value types inside them, so they stay untyped.
type Message struct {
	TS          string           `json:"ts"`
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
