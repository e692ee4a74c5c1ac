package models

import (
	"sort"
	"time"
)

// commentSentinel stands in for the last-comment time of a review that has
// no comments: the maximum representable date at the minimum time of day.
// Uncommented reviews therefore sort as if commented on "latest possible",
// landing at the tail of an ascending comment-sorted list.
var commentSentinel = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// SortReviews orders reviews in place by creation time, or by the time of
// their last comment when byLastComment is set. The sort is stable, so
// records with equal keys keep their aggregation order. reverse flips the
// comparison, which moves uncommented reviews to the front under
// byLastComment.
func SortReviews(reviews []Review, byLastComment, reverse bool) {
	key := func(r *Review) time.Time {
		if !byLastComment {
			return r.Time
		}
		if r.LastComment != nil {
			return r.LastComment.CreatedAt
		}
		return commentSentinel
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		if reverse {
			return key(&reviews[j]).Before(key(&reviews[i]))
		}
		return key(&reviews[i]).Before(key(&reviews[j]))
	})
}
