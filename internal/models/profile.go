package models

import "regexp"

var guestUsernamePattern = regexp.MustCompile(`^[0-9]{7}$`)

// IsGuestUsername reports whether the username follows the guest pattern:
// exactly 7 digits. Guests have no profile row and no credentials.
func IsGuestUsername(username string) bool {
	return guestUsernamePattern.MatchString(username)
}

// Role is a profile's permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleGuest marks synthesized records for 7-digit guest usernames.
	// Guest profiles are never persisted.
	RoleGuest Role = "guest"
)

// ProfileModel is a user's public profile. One row per registered username;
// mutated by the owner only.
type ProfileModel struct {
	Base
	Username    string `json:"username"     gorm:"uniqueIndex;not null"`
	Role        Role   `json:"role"         gorm:"default:'user'"`
	AboutMe     string `json:"about_me"     gorm:"type:text"`
	ContactInfo string `json:"contact_info"`
	PictureURL  string `json:"picture_url"`
	BannerURL   string `json:"banner_url"`
}

func (ProfileModel) TableName() string { return "profiles" }

// IsAdmin reports whether the profile has the admin role.
func (p *ProfileModel) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
