package workspace

// Workspace describes the Slack team the credential is bound to.
//
// Icon is an open map: Slack returns image URLs and an "image_default"
// boolean in the same object, so a fixed record would lose fields on
// round-trip.
type Workspace struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Domain         string         `json:"domain"`
	EmailDomain    *string        `json:"email_domain"`
	Icon           map[string]any `json:"icon"`
	EnterpriseID   *string        `json:"enterprise_id"`
	EnterpriseName *string        `json:"enterprise_name"`
}

// AuthInfo is the identity auth.test reports for the active credential.
type AuthInfo struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}
