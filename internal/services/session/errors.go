package session

// SessionError is a custom error type for session-related errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingNick      SessionError = "nickname is required"
	ErrMissingSessionID SessionError = "session ID is required"
	ErrSessionNotFound  SessionError = "session not found"
	ErrNicknameTaken    SessionError = "nickname already in session"
	ErrCreateFailed     SessionError = "could not create session"
	ErrJoinFailed       SessionError = "could not join session"
	ErrGetFailed        SessionError = "could not load session"
	ErrNilConfig        SessionError = "config cannot be nil"
	ErrNilRepository    SessionError = "session repository cannot be nil"
)
