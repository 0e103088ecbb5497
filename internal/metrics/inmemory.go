package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated      uint64
	UserEmailsChanged uint64
	UsersDeleted      uint64
	PostsCreated      uint64
	PostsUpdated      uint64
	PostsDeleted      uint64
	UserCacheHits     uint64
	UserCacheMisses   uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated      uint64
	userEmailsChanged uint64
	usersDeleted      uint64
	postsCreated      uint64
	postsUpdated      uint64
	postsDeleted      uint64
	userCacheHits     uint64
	userCacheMisses   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:      atomic.LoadUint64(&m.usersCreated),
		UserEmailsChanged: atomic.LoadUint64(&m.userEmailsChanged),
		UsersDeleted:      atomic.LoadUint64(&m.usersDeleted),
		PostsCreated:      atomic.LoadUint64(&m.postsCreated),
		PostsUpdated:      atomic.LoadUint64(&m.postsUpdated),
		PostsDeleted:      atomic.LoadUint64(&m.postsDeleted),
		UserCacheHits:     atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:   atomic.LoadUint64(&m.userCacheMisses),
	}
}

// IncUserCreated increments the created-users counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserEmailChanged increments the email-change counter.
func (m *InMemoryRecorder) IncUserEmailChanged() {
	atomic.AddUint64(&m.userEmailsChanged, 1)
}

// IncUserDeleted increments the deleted-users counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncPostCreated increments the created-posts counter.
func (m *InMemoryRecorder) IncPostCreated() {
	atomic.AddUint64(&m.postsCreated, 1)
}

// IncPostUpdated increments the updated-posts counter.
func (m *InMemoryRecorder) IncPostUpdated() {
	atomic.AddUint64(&m.postsUpdated, 1)
}

// IncPostDeleted increments the deleted-posts counter.
func (m *InMemoryRecorder) IncPostDeleted() {
	atomic.AddUint64(&m.postsDeleted, 1)
}

// IncUserCacheHit increments the user cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments the user cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}
