package domain

const (
	MailTypeInviteMember = "invite_member"
	MailTypeWelcome      = "welcome"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type InviteMemberMailData struct {
	Name      string `json:"name"`
	InvitedBy string `json:"invitedBy"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	SignInURL string `json:"signInUrl"`
}

type WelcomeMailData struct {
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	SignInURL string `json:"signInUrl"`
}
