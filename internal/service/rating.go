package service

// meanRating is the single rating aggregation rule: the arithmetic mean of
// the ratings, and 0 when there are none.
//
// WHY 0 AND NOT NaN?
// Zero is a deliberate sentinel — valid ratings start at 1, so callers can
// render 0 as "no rating yet" without a separate flag. Returning NaN or an
// error would push an empty-set branch into every caller.
//
// The mean is recomputed from the live review set on every call; there is
// no cached or denormalized rating column to drift out of date. Review
// sets are small, so the recomputation is cheap.
func meanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
