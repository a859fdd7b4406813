package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"coachly_backend/internal/model"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/email"
	"coachly_backend/pkg/subscription"
	"coachly_backend/pkg/utils/jwt"
)

type SubscribeInput struct {
	TierID       string `json:"tier_id" validate:"required"`
	BillingCycle string `json:"billing_cycle"` // "monthly" or "yearly", default monthly
}

func InitSubscriptionController() {}

// tierView is the catalog entry plus its derived yearly price.
type tierView struct {
	subscription.Tier
	YearlyPrice int `json:"yearly_price"`
}

// ListTiers returns the static tier catalog in display order.
func ListTiers(c *fiber.Ctx) error {
	tiers := make([]tierView, 0, len(subscription.TierOrder))
	for _, id := range subscription.TierOrder {
		tier, ok := subscription.GetTierByID(id)
		if !ok {
			continue
		}
		tiers = append(tiers, tierView{
			Tier:        tier,
			YearlyPrice: subscription.GetYearlyPrice(tier.Price),
		})
	}

	return c.JSON(tiers)
}

// StartTrial creates a 14-day trial subscription for the authenticated
// coach. The caller is authenticated before any data access; a coach with
// any existing subscription record gets a conflict, and the unique index on
// user_id catches the concurrent double-submit race.
func StartTrial(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var existing model.CoachSubscription
	err := database.DB.Where("user_id = ?", claims.UserID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You already have a subscription",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	tier, _ := subscription.GetTierByID(subscription.BasicTier)

	now := time.Now()
	expiresAt := now.AddDate(0, 0, subscription.TrialDays)

	trial := model.CoachSubscription{
		UserID:       claims.UserID,
		TierID:       string(tier.ID),
		Status:       model.SubscriptionStatusTrial,
		BillingCycle: tier.BillingCycle,
		Price:        0,
		Currency:     "USD",
		StartedAt:    now,
		ExpiresAt:    &expiresAt,
	}

	if err := database.DB.Create(&trial).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "You already have a subscription",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendTrialStartedEmail(claims.Email, tier.Name, subscription.TrialDays, expiresAt); err != nil {
			log.Printf("Could not send trial started email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"subscription_id": trial.ID,
		"message":         fmt.Sprintf("Your %d-day free trial has started", subscription.TrialDays),
		"trial_days":      subscription.TrialDays,
	})
}

// GetMySubscription returns the caller's subscription record, if any.
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.CoachSubscription
	if err := database.DB.Where("user_id = ?", claims.UserID).First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	return c.JSON(sub)
}

// Subscribe creates a paid Stripe subscription for a catalog tier and
// upserts the coach's subscription record.
func Subscribe(c *fiber.Ctx) error {
	input := new(SubscribeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	tier, ok := subscription.GetTierByID(subscription.TierID(input.TierID))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription tier not found",
		})
	}

	yearly := input.BillingCycle == "yearly"
	priceID := subscription.StripePriceID(tier.ID, yearly)
	if priceID == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Tier is not configured for billing",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	stripeCustomer, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.GetFullName()),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe customer",
		})
	}

	stripeSubscription, err := stripesub.New(&stripe.SubscriptionParams{
		Customer: stripe.String(stripeCustomer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(priceID),
			},
		},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subscription",
		})
	}

	price := tier.Price
	billingCycle := "monthly"
	if yearly {
		price = subscription.GetYearlyPrice(tier.Price)
		billingCycle = "yearly"
	}

	expiresAt := time.Unix(stripeSubscription.CurrentPeriodEnd, 0)

	// One record per coach: a trial or lapsed record is upgraded in place.
	var sub model.CoachSubscription
	err = database.DB.Where("user_id = ?", claims.UserID).First(&sub).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load subscription",
		})
	}

	sub.UserID = claims.UserID
	sub.TierID = string(tier.ID)
	sub.Status = model.SubscriptionStatusActive
	sub.BillingCycle = billingCycle
	sub.Price = price
	sub.Currency = "USD"
	sub.StartedAt = time.Now()
	sub.ExpiresAt = &expiresAt
	sub.StripeSubID = stripeSubscription.ID

	if err := database.DB.Save(&sub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email,
			user.GetFullName(),
			tier.Name,
			billingCycle,
			price,
			"USD",
			expiresAt,
			false,
		)
		if err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": sub,
	})
}

// CancelSubscription cancels the coach's Stripe subscription and marks the
// record inactive. Trial records have no Stripe side and just flip status.
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.CoachSubscription
	if err := database.DB.Where("user_id = ? AND status IN ?", claims.UserID,
		[]model.SubscriptionStatus{model.SubscriptionStatusActive, model.SubscriptionStatusTrial}).
		Preload("User").
		First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	if sub.StripeSubID != "" {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		if _, err := stripesub.Cancel(sub.StripeSubID, nil); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not cancel Stripe subscription",
			})
		}
	}

	sub.Status = model.SubscriptionStatusInactive
	if err := database.DB.Save(&sub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		tier, _ := subscription.GetTierByID(subscription.TierID(sub.TierID))
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			sub.User.Email,
			sub.User.GetFullName(),
			tier.Name,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

// HandleStripeWebhook keeps subscription records in sync with Stripe.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		if err := database.DB.Model(&model.CoachSubscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Update("status", model.SubscriptionStatusExpired).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		log.Printf("Subscription %s expired", subData.ID)

	case "customer.subscription.updated":
		var subData struct {
			ID               string `json:"id"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
			Items            struct {
				Data []struct {
					Price struct {
						ID string `json:"id"`
					} `json:"price"`
				} `json:"data"`
			} `json:"items"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		expiresAt := time.Unix(subData.CurrentPeriodEnd, 0)

		updates := map[string]interface{}{
			"expires_at": expiresAt,
			"status":     model.SubscriptionStatusActive,
		}

		// Plan changes made through the Stripe portal sync the tier back.
		if len(subData.Items.Data) > 0 {
			updates["tier_id"] = string(subscription.DetermineTier(subData.Items.Data[0].Price.ID))
		}

		if err := database.DB.Model(&model.CoachSubscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription expiry",
			})
		}

		log.Printf("Subscription %s renewed until %s", subData.ID, expiresAt.Format(time.RFC3339))
	}

	return c.SendStatus(fiber.StatusOK)
}
