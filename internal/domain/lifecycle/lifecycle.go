// Package lifecycle holds shared timing constants for component start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of servers, publishers and pools.
const DefaultTimeout = 10 * time.Second
