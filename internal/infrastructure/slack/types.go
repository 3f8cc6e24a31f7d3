package slack

import "github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"

// Wire payloads for the Slack Web API. Mapping into domain records is
// defensive throughout: a missing nested object or optional field defaults
// rather than failing the whole response.

type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (e *apiEnvelope) envelope() *apiEnvelope { return e }

// enveloped is satisfied by every response type via apiEnvelope embedding.
type enveloped interface{ envelope() *apiEnvelope }

type responseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type topicPayload struct {
	Value string `json:"value"`
}

type channelPayload struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	IsPrivate  bool          `json:"is_private"`
	IsArchived bool          `json:"is_archived"`
	IsGeneral  bool          `json:"is_general"`
	Topic      *topicPayload `json:"topic"`
	Purpose    *topicPayload `json:"purpose"`
	NumMembers *int          `json:"num_members"`
}

func (p channelPayload) toDomain() workspace.Channel {
	ch := workspace.Channel{
		ID:          p.ID,
		Name:        p.Name,
		IsPrivate:   p.IsPrivate,
		IsArchived:  p.IsArchived,
		IsGeneral:   p.IsGeneral,
		MemberCount: p.NumMembers,
	}
	if p.Topic != nil {
		ch.Topic = &p.Topic.Value
	}
	if p.Purpose != nil {
		ch.Purpose = &p.Purpose.Value
	}
	return ch
}

type messagePayload struct {
	TS          string           `json:"ts"`
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

func (p messagePayload) toDomain(channelID string) workspace.Message {
	msg := workspace.Message{
		TS:          p.TS,
		Channel:     channelID,
		User:        p.User,
		Text:        p.Text,
		ThreadTS:    p.ThreadTS,
		ReplyCount:  p.ReplyCount,
		Reactions:   p.Reactions,
		Attachments: p.Attachments,
		Files:       p.Files,
		Edited:      p.Edited,
		Permalink:   p.Permalink,
	}
	// Sequences default to empty, not null, matching what consumers of the
	// serialized form expect for "no reactions" vs "unknown".
	if msg.Reactions == nil {
		msg.Reactions = []map[string]any{}
	}
	if msg.Attachments == nil {
		msg.Attachments = []map[string]any{}
	}
	if msg.Files == nil {
		msg.Files = []map[string]any{}
	}
	return msg
}

type userProfilePayload struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Image72     *string `json:"image_72"`
}

type userPayload struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Deleted  bool                `json:"deleted"`
	RealName *string             `json:"real_name"`
	TZ       *string             `json:"tz"`
	IsBot    bool                `json:"is_bot"`
	IsAdmin  bool                `json:"is_admin"`
	Profile  *userProfilePayload `json:"profile"`
}

func (p userPayload) toDomain() workspace.User {
	u := workspace.User{
		ID:       p.ID,
		Name:     p.Name,
		RealName: p.RealName,
		IsBot:    p.IsBot,
		IsAdmin:  p.IsAdmin,
		Timezone: p.TZ,
	}
	if p.Profile != nil {
		u.DisplayName = p.Profile.DisplayName
		u.Email = p.Profile.Email
		u.ProfileImage = p.Profile.Image72
	}
	return u
}

type teamPayload struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Domain         string         `json:"domain"`
	EmailDomain    *string        `json:"email_domain"`
	Icon           map[string]any `json:"icon"`
	EnterpriseID   *string        `json:"enterprise_id"`
	EnterpriseName *string        `json:"enterprise_name"`
}

func (p teamPayload) toDomain() workspace.Workspace {
	return workspace.Workspace{
		ID:             p.ID,
		Name:           p.Name,
		Domain:         p.Domain,
		EmailDomain:    p.EmailDomain,
		Icon:           p.Icon,
		EnterpriseID:   p.EnterpriseID,
		EnterpriseName: p.EnterpriseName,
	}
}

type authTestResponse struct {
	apiEnvelope
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

type teamInfoResponse struct {
	apiEnvelope
	Team teamPayload `json:"team"`
}

type channelListResponse struct {
	apiEnvelope
	Channels         []channelPayload `json:"channels"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

type historyResponse struct {
	apiEnvelope
	Messages []messagePayload `json:"messages"`
}

type postMessageResponse struct {
	apiEnvelope
	Channel string         `json:"channel"`
	TS      string         `json:"ts"`
	Message messagePayload `json:"message"`
}

type userInfoResponse struct {
	apiEnvelope
	User userPayload `json:"user"`
}

type userListResponse struct {
	apiEnvelope
	Members          []userPayload    `json:"members"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}
