package domain

// ProfilePatch enumerates exactly the profile fields a user may change
// about themselves. Nil means "leave unchanged".
type ProfilePatch struct {
	FirstName          *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Language           *string `json:"language" validate:"omitempty,oneof=pt-BR en es"`
	Timezone           *string `json:"timezone" validate:"omitempty,max=100"`
	EmailNotifications *bool   `json:"email_notifications"`
	Bio                *string `json:"bio" validate:"omitempty,max=500"`
}

// Apply copies the set fields onto the user record.
func (p ProfilePatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Language != nil {
		u.Language = *p.Language
	}
	if p.Timezone != nil {
		u.Timezone = *p.Timezone
	}
	if p.EmailNotifications != nil {
		u.EmailNotifications = *p.EmailNotifications
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
}
