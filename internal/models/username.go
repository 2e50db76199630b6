package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsernameProfile is the free-form public profile attached to a claimed name.
type UsernameProfile struct {
	Bio     string `json:"bio,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Twitter string `json:"twitter,omitempty"`
	Website string `json:"website,omitempty"`
}

// Username is a claim record granting one identity exclusive use of an @name.
// ID is auto-incremented and doubles as insertion order for stable sorting.
type Username struct {
	ID                uint                                `json:"-" gorm:"primaryKey;autoIncrement"`
	Username          string                              `json:"username" gorm:"uniqueIndex;type:varchar(32);not null"`
	OwnerID           string                              `json:"ownerId" gorm:"index;type:varchar(36);not null"`
	WalletAddress     *string                             `json:"walletAddress,omitempty" gorm:"index;type:varchar(64)"`
	Level             int                                 `json:"level" gorm:"not null;default:1"`
	XP                int                                 `json:"xp" gorm:"not null;default:0"`
	TotalYield        float64                             `json:"totalYield" gorm:"not null;default:0"`
	TotalTransactions int                                 `json:"totalTransactions" gorm:"not null;default:0"`
	TotalVolume       float64                             `json:"totalVolume" gorm:"not null;default:0"`
	ListedPrice       *float64                            `json:"listedPrice" gorm:"index"`
	IsPremium         bool                                `json:"isPremium" gorm:"not null;default:false"`
	IsVerified        bool                                `json:"isVerified" gorm:"not null;default:false"`
	Profile           datatypes.JSONType[UsernameProfile] `json:"profile"`
	Stats             datatypes.JSONMap                   `json:"stats"`
	RegistrationTx    *string                             `json:"registrationTx,omitempty"`
	CreatedAt         time.Time                           `json:"registeredAt"`
	UpdatedAt         time.Time                           `json:"updatedAt"`
}

// Listed reports whether the name is currently for sale.
func (u *Username) Listed() bool {
	return u.ListedPrice != nil && *u.ListedPrice > 0
}
