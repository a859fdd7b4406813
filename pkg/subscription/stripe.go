package subscription

import "os"

// Stripe price IDs per tier and billing cycle, from the environment so test
// and live mode can use different catalogs.
func StripePriceID(id TierID, yearly bool) string {
	suffix := "_MONTHLY"
	if yearly {
		suffix = "_YEARLY"
	}
	switch id {
	case BasicTier:
		return os.Getenv("STRIPE_PRICE_BASIC" + suffix)
	case PremiumTier:
		return os.Getenv("STRIPE_PRICE_PREMIUM" + suffix)
	case EnterpriseTier:
		return os.Getenv("STRIPE_PRICE_ENTERPRISE" + suffix)
	}
	return ""
}

// DetermineTier maps a Stripe price ID back to a catalog tier. Unknown
// prices resolve to the basic tier.
func DetermineTier(stripePriceID string) TierID {
	for _, id := range TierOrder {
		if stripePriceID == StripePriceID(id, false) || stripePriceID == StripePriceID(id, true) {
			return id
		}
	}
	return BasicTier
}
