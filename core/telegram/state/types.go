package state

// Store holds at most one session per user.
// Implementations must be safe for concurrent use; each call is atomic per key.
type Store[T any] interface {
	// Get returns the session for userID and whether one exists.
	Get(userID int64) (T, bool)
	// Set creates or replaces the session for userID.
	Set(userID int64, session T)
	// Clear removes the session for userID and reports whether one existed.
	Clear(userID int64) bool
	// Len reports the number of live sessions.
	Len() int
}
