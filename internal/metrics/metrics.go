// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User lifecycle metrics
	IncUserCreated()
	IncUserEmailChanged()
	IncUserDeleted()

	// Post lifecycle metrics
	IncPostCreated()
	IncPostUpdated()
	IncPostDeleted()

	// User cache metrics
	IncUserCacheHit()
	IncUserCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
