// Package showapi holds the read-only clients for the two external listing
// services. Both clients share the same failure policy: any transport,
// status, or decode problem is logged and turned into an empty result set.
// Nothing here retries, backs off, or caches.
package showapi

import "time"

// Config holds configuration for the listing clients.
type Config struct {
	// Show listings service
	ListingsBaseURL string
	ListingsAPIKey  string
	DefaultCity     string
	DefaultCountry  string

	// Song search service
	SongBaseURL string

	RequestTimeout time.Duration
}

const defaultTimeout = 30 * time.Second

func (c Config) timeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return defaultTimeout
}
