package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetYearlyPrice(t *testing.T) {
	// round(monthly * 12 * 0.8)
	assert.Equal(t, 278, GetYearlyPrice(29))
	assert.Equal(t, 758, GetYearlyPrice(79))
	assert.Equal(t, 1910, GetYearlyPrice(199))
	assert.Equal(t, 0, GetYearlyPrice(0))
}

func TestGetYearlyPriceIsMonotonic(t *testing.T) {
	prev := GetYearlyPrice(0)
	for monthly := 1; monthly <= 1000; monthly++ {
		current := GetYearlyPrice(monthly)
		assert.GreaterOrEqual(t, current, prev, "yearly price must not decrease at monthly=%d", monthly)
		prev = current
	}
}

func TestGetYearlyPriceIsCheaperThanTwelveMonths(t *testing.T) {
	for _, id := range TierOrder {
		tier, _ := GetTierByID(id)
		assert.Less(t, GetYearlyPrice(tier.Price), tier.Price*12)
	}
}
