package cron

import (
	"log"
	"time"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/email"
	"coachly_backend/pkg/subscription"

	"github.com/robfig/cron/v3"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkExpiringSubscriptions()
		expirePastDueSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

func checkExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.CoachSubscription
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		err := database.DB.Where("DATE(expires_at) = ? AND status IN ?", targetDate,
			[]model.SubscriptionStatus{model.SubscriptionStatusActive, model.SubscriptionStatusTrial}).
			Preload("User").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions expiring in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil || sub.ExpiresAt == nil {
				continue
			}

			tier, _ := subscription.GetTierByID(subscription.TierID(sub.TierID))

			err := email.GlobalEmailService.SendSubscriptionExpiryWarning(
				sub.User.Email,
				sub.User.GetFullName(),
				tier.Name,
				*sub.ExpiresAt,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			} else {
				log.Printf("Sent expiry warning to %s for subscription expiring in %d days", sub.User.Email, days)
			}
		}
	}
}

// expirePastDueSubscriptions flips trial and active records whose expiry has
// passed to expired. Records are never deleted.
func expirePastDueSubscriptions() {
	result := database.DB.Model(&model.CoachSubscription{}).
		Where("expires_at < ? AND status IN ?", time.Now(),
			[]model.SubscriptionStatus{model.SubscriptionStatusActive, model.SubscriptionStatusTrial}).
		Update("status", model.SubscriptionStatusExpired)

	if result.Error != nil {
		log.Printf("Error expiring past-due subscriptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d past-due subscriptions", result.RowsAffected)
	}
}
