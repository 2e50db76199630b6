package models

import "time"

// User is an authenticated identity, reachable by email or wallet address.
// Nullable unique columns are pointers so that absent values never collide.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        *string   `json:"email,omitempty" gorm:"uniqueIndex;type:varchar(255)"`
	Name         string    `json:"name,omitempty" gorm:"type:varchar(100)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Wallet       *string   `json:"wallet,omitempty" gorm:"uniqueIndex;type:varchar(64)"`
	Username     *string   `json:"username,omitempty" gorm:"uniqueIndex;type:varchar(32)"`
	Avatar       string    `json:"avatar,omitempty"`
	XP           int       `json:"xp" gorm:"not null;default:0"`
	Level        int       `json:"level" gorm:"not null;default:1"`
	Earnings     float64   `json:"earnings" gorm:"not null;default:0"`
	StakedAmount float64   `json:"stakedAmount" gorm:"not null;default:0"`
	ReferralCode string    `json:"referralCode" gorm:"uniqueIndex;type:varchar(16)"`
	ReferredBy   *string   `json:"referredBy,omitempty" gorm:"type:varchar(16)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasUsername reports whether the identity already holds a claimed name.
func (u *User) HasUsername() bool {
	return u.Username != nil && *u.Username != ""
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
