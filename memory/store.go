package memory

import "context"

// Profile records are addressed by (Namespace, userID, ProfileKey). The
// constants are part of the durable layout and shared by every backend.
const (
	Namespace  = "memory"
	ProfileKey = "student_profile"
)

// ProfileStore is the keyed get/put capability the extractor writes through.
// Any durable or in-memory key-value backend satisfies it.
//
// Get returns (nil, nil) when no profile exists — absence is not an error.
// Put unconditionally overwrites: the store is last-write-wins, with no
// optimistic concurrency. Two concurrent turns for one user may race on the
// profile and the later Put wins; backends only guarantee that a single
// record is never corrupted by concurrent access.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*StudentProfile, error)
	Put(ctx context.Context, userID string, profile *StudentProfile) error
}
