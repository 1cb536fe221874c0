package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type InviteUserMailData struct {
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Token        string `json:"token"`
	TempPassword string `json:"tempPassword"`
	Expiration   int    `json:"expiration"`
}

type RoleChangedMailData struct {
	Name    string `json:"name"`
	NewRole Role   `json:"newRole"`
}
