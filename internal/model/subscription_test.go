package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoachSubscriptionIsUsable(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 14)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name string
		sub  CoachSubscription
		want bool
	}{
		{"active no expiry", CoachSubscription{Status: SubscriptionStatusActive}, true},
		{"active future expiry", CoachSubscription{Status: SubscriptionStatusActive, ExpiresAt: &future}, true},
		{"trial future expiry", CoachSubscription{Status: SubscriptionStatusTrial, ExpiresAt: &future}, true},
		{"trial past expiry", CoachSubscription{Status: SubscriptionStatusTrial, ExpiresAt: &past}, false},
		{"expired", CoachSubscription{Status: SubscriptionStatusExpired, ExpiresAt: &future}, false},
		{"inactive", CoachSubscription{Status: SubscriptionStatusInactive}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsUsable(now))
		})
	}
}

func TestCoachSubscriptionIsTrial(t *testing.T) {
	assert.True(t, (&CoachSubscription{Status: SubscriptionStatusTrial}).IsTrial())
	assert.False(t, (&CoachSubscription{Status: SubscriptionStatusActive}).IsTrial())
}
