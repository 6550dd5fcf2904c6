// Package buzz computes the 1-5 popularity score written on every place
// candidate: engagement divided by elapsed time since publication, clamped.
package buzz

import "time"

const (
	// minElapsedDays guards the Instagram formula against same-instant
	// crawls and clock skew.
	minElapsedDays = 0.01
	// minElapsedHours guards the YouTube formula for freshly published
	// videos.
	minElapsedHours = 1.0

	minScore = 1
	maxScore = 5
)

// Instagram scores a post by likes per elapsed day, scaled down by 100.
// Missing timestamps default to the minimum score.
func Instagram(likes int64, publishedAt, crawledAt time.Time) int {
	if publishedAt.IsZero() || crawledAt.IsZero() {
		return minScore
	}

	elapsedDays := crawledAt.Sub(publishedAt).Hours() / 24
	if elapsedDays < minElapsedDays {
		elapsedDays = minElapsedDays
	}

	return clamp(float64(likes) / elapsedDays / 100)
}

// Youtube scores a video by views relative to subscriber reach and elapsed
// hours. Missing timestamps or a non-positive subscriber count default to
// the minimum score.
func Youtube(views, subscribers int64, publishedAt, crawledAt time.Time) int {
	if publishedAt.IsZero() || crawledAt.IsZero() || subscribers <= 0 {
		return minScore
	}

	elapsedHours := crawledAt.Sub(publishedAt).Hours()
	if elapsedHours < minElapsedHours {
		elapsedHours = minElapsedHours
	}

	return clamp(100 * float64(views) / (float64(subscribers) * elapsedHours))
}

// clamp bounds the raw score to [1,5] inclusive and truncates to an integer.
func clamp(raw float64) int {
	if raw < minScore {
		return minScore
	}
	if raw > maxScore {
		return maxScore
	}
	return int(raw)
}
