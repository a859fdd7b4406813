package subscription

import "math"

// YearlyDiscountRate is applied when a coach pays for a year up front.
const YearlyDiscountRate = 0.20

// GetYearlyPrice derives the yearly price from a monthly price:
// round(monthly * 12 * (1 - YearlyDiscountRate)), rounded to the nearest
// integer with halves away from zero (math.Round).
func GetYearlyPrice(monthlyPrice int) int {
	return int(math.Round(float64(monthlyPrice) * 12 * (1 - YearlyDiscountRate)))
}
