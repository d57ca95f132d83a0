package model

import "time"

// User is an account known to the hub. Staff users are authorized authors:
// they may create, edit and delete editais and see drafts.
type User struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	Email   string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	APIKey  string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	IsStaff bool   `gorm:"not null;default:false" json:"is_staff"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Viewer privilege classes, used to partition detail caches so a draft
// served to an author is never handed to the public from cache.
const (
	ViewerAnonymous = "anon"
	ViewerUser      = "auth"
	ViewerStaff     = "staff"
)

// ViewerClass returns the privilege class for u (nil means anonymous).
func ViewerClass(u *User) string {
	switch {
	case u == nil:
		return ViewerAnonymous
	case u.IsStaff:
		return ViewerStaff
	default:
		return ViewerUser
	}
}

// DisplayName returns the audit name for u, "unknown" when unattributable.
func DisplayName(u *User) string {
	if u == nil || u.Name == "" {
		return "unknown"
	}
	return u.Name
}
