// Package cache provides a byte-bounded LRU cache for decoded, immutable data.
//
// Entries are charged to an optional resource.Controller so cached layers
// and in-flight distance matrices share one memory budget. When the controller
// refuses a reservation the value is simply not cached.
package cache
