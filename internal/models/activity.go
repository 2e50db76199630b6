package models

import "time"

// ActivityType enumerates the kinds of feed entries.
type ActivityType string

const (
	ActivityStake       ActivityType = "stake"
	ActivityUnstake     ActivityType = "unstake"
	ActivityClaim       ActivityType = "claim"
	ActivityReferral    ActivityType = "referral"
	ActivityTransaction ActivityType = "transaction"
	ActivityListing     ActivityType = "listing"
)

// Activity is one entry of a wallet's activity feed.
type Activity struct {
	ID          uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	Wallet      string       `json:"wallet" gorm:"index;type:varchar(64);not null"`
	Type        ActivityType `json:"type" gorm:"type:varchar(16);not null"`
	Description string       `json:"description" gorm:"not null"`
	Amount      *float64     `json:"amount,omitempty"`
	XPEarned    int          `json:"xpEarned" gorm:"not null;default:0"`
	TxHash      *string      `json:"txHash,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
