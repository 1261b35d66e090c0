package model

// UserInterest is the accumulated affinity of one user for one tag.
//
// Level is a running accumulator: every time the user rates an event, the
// rating value is added to the level of each tag the event carries. It is
// NOT derived from the current set of reviews — re-rating an event adds
// again rather than replacing the earlier contribution. The only reset
// path is the explicit preferences form, which replaces all of a user's
// rows wholesale.
type UserInterest struct {
	UserID string `json:"userId"`
	TagID  string `json:"tagId"`
	Level  int    `json:"level"`
}
