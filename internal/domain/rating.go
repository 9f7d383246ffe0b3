package domain

// Rating bounds for a settled service.
const (
	MinRating = 1
	MaxRating = 5
)

// IsValidRating checks whether the rating falls within the accepted scale.
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// RatingSummary aggregates ratings received by a freelancer. Sum and Count
// are exact integers; the average is derived on read.
type RatingSummary struct {
	FreelancerID string `json:"freelancer_id"`
	Sum          int64  `json:"-"`
	Count        int64  `json:"count"`
	Average      int    `json:"average"`
}

// ComputeAverage returns the mean rating rounded to the nearest integer,
// or 0 when the freelancer has no ratings.
func (r *RatingSummary) ComputeAverage() int {
	if r.Count == 0 {
		return 0
	}
	return int((2*r.Sum + r.Count) / (2 * r.Count))
}
