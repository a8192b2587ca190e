package synchronizer

// SyncError is a custom error type for subscription errors
type SyncError string

// Error implements the error interface
func (e SyncError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingSessionID SyncError = "session ID is required"
	ErrSessionNotFound  SyncError = "session not found"
	ErrSubscribeFailed  SyncError = "could not subscribe to session"
	ErrNilConfig        SyncError = "config cannot be nil"
	ErrNilRepository    SyncError = "session repository cannot be nil"
)
