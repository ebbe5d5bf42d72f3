package domain

import "time"

// CachedResponse is a memoized upstream payload.
// Corresponds to the api_cache table.
type CachedResponse struct {
	Key       string    // exact request URL
	Payload   []byte    // raw response body
	FetchedAt time.Time // when the payload was fetched upstream
}

// IsFresh reports whether the entry is younger than ttl at now.
func (c *CachedResponse) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.FetchedAt) < ttl
}
