package domain

// Member is a team member considered during planning. Identity is UserID.
type Member struct {
	UserID      string
	DisplayName string
	Email       string
	Role        string // free text as entered on the project
	ActualRole  string // role reported by the user directory, wins over Role when set
	Avatar      string
}

// EffectiveRole returns the role label used for classification.
func (m Member) EffectiveRole() string {
	return CoalesceStr(m.ActualRole, m.Role)
}

// Name returns the display name, falling back to the user id.
func (m Member) Name() string {
	return CoalesceStr(m.DisplayName, m.UserID)
}
