package workspace

// User is a Slack workspace member. Deleted members are filtered out by
// the client and never appear in listings.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	RealName     *string `json:"real_name"`
	DisplayName  *string `json:"display_name"`
	Email        *string `json:"email"`
	IsBot        bool    `json:"is_bot"`
	IsAdmin      bool    `json:"is_admin"`
	Timezone     *string `json:"timezone"`
	ProfileImage *string `json:"profile_image"`
}

// Label returns the friendliest non-empty name for display purposes.
func (u User) Label() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	if u.RealName != nil && *u.RealName != "" {
		return *u.RealName
	}
	return u.Name
}
