// Package funding computes the display metrics a campaign derives from its
// raw donation and rating collections.
package funding

// CancelThresholdPercent is the funding level at or above which an owner can
// no longer cancel a project.
const CancelThresholdPercent = 25.0

// PercentFunded returns the collected-to-target ratio expressed 0-100.
// A non-positive target yields 0 rather than dividing by zero, and the result
// is clamped to [0, 100] so an over-funded project cannot overflow a progress
// bar.
func PercentFunded(totalCollected, totalTarget int64) float64 {
	if totalTarget <= 0 {
		return 0
	}
	pct := 100 * float64(totalCollected) / float64(totalTarget)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AverageRating returns the arithmetic mean of the given scores, or nil when
// there are none so callers can render "No ratings yet".
func AverageRating(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return &avg
}

// RatingCount returns the number of ratings.
func RatingCount(values []int) int {
	return len(values)
}

// SumDonations totals the given donation amounts.
func SumDonations(amounts []int64) int64 {
	var sum int64
	for _, a := range amounts {
		sum += a
	}
	return sum
}

// CanBeCanceled reports whether a project funded at the given level may still
// be canceled by its owner: strictly below 25% of target. An unfunded target
// of zero is always cancelable.
func CanBeCanceled(totalCollected, totalTarget int64) bool {
	return PercentFunded(totalCollected, totalTarget) < CancelThresholdPercent
}
