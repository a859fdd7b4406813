package model

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusTrial    SubscriptionStatus = "trial"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// CoachSubscription is the one subscription record a coach may hold. The
// unique index on UserID is the enforcement point against concurrent
// double-submission of the trial flow; rows are never hard-deleted, only
// moved between statuses.
type CoachSubscription struct {
	gorm.Model
	UserID       uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	TierID       string             `json:"tier" gorm:"type:varchar(20);not null"`
	Status       SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	BillingCycle string             `json:"billing_cycle" gorm:"type:varchar(10);default:'monthly'"`
	Price        int                `json:"price"`
	Currency     string             `json:"currency" gorm:"type:varchar(3);default:'USD'"`
	StartedAt    time.Time          `json:"started_at"`
	ExpiresAt    *time.Time         `json:"expires_at"`
	StripeSubID  string             `json:"stripe_subscription_id"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (s *CoachSubscription) IsTrial() bool {
	return s.Status == SubscriptionStatusTrial
}

// IsUsable reports whether the subscription currently grants tier access.
func (s *CoachSubscription) IsUsable(now time.Time) bool {
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrial {
		return false
	}
	if s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
		return false
	}
	return true
}
