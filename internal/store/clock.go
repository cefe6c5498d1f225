package store

import "time"

// Clock supplies created_at timestamps to the stores. Time is an injected
// capability rather than a direct system call so tests control it exactly.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now().UTC() }
