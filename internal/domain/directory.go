package domain

// DefaultLanguage is assumed when a user has no stored language preference.
// Salons are Korean-operating, so their side of a conversation is always ko.
const DefaultLanguage = "ko"

// User is a chat participant on the customer side.
type User struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	Language            string `json:"language"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// PreferredLanguage returns the user's language preference, defaulting to ko.
func (u *User) PreferredLanguage() string {
	if u.Language == "" {
		return DefaultLanguage
	}
	return u.Language
}

// Salon is a chat participant on the business side.
type Salon struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
