package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent read-mostly queries. A centralized singleflight.Group ensures
// only one database round-trip runs for a given key while other callers
// wait for the result.

import "golang.org/x/sync/singleflight"

// LeaderboardGroup deduplicates leaderboard queries keyed by the requested
// limit (e.g. "top:10"). The leaderboard is hit by every connected client's
// lobby screen, so collapsing the stampede matters more than freshness.
var LeaderboardGroup singleflight.Group
