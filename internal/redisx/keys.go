package redisx

import "time"

const (
	// Item read cache: item:{item_id} -> item JSON
	KeyItemCache = "item:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLItemCache = 5 * time.Minute
	TTLDedup     = 48 * time.Hour
)
