// Package lifecycle holds shared constants for application start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown of managed
// resources such as the HTTP server and database pool.
const DefaultTimeout = 10 * time.Second
