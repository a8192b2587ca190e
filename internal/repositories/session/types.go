package session

import (
	"sync"

	"github.com/KirkDiggler/diceroom/internal/models"
)

type GetSessionInput struct {
	SessionID string
}

type SaveSessionInput struct {
	// Session is the full document to store. On success its Version is
	// set to the stored version.
	Session *models.Session

	// ExpectedVersion must match the stored version; 0 means the session
	// must not exist yet
	ExpectedVersion int64
}

type SubscribeInput struct {
	SessionID string
}

// Subscription delivers session documents as they are written
type Subscription struct {
	updates <-chan *models.Session
	done    chan struct{}
	closeFn func() error
	once    sync.Once
	err     error
}

// NewSubscription wraps an update channel. closeFn releases whatever feeds
// the channel and is called at most once.
func NewSubscription(updates <-chan *models.Session, closeFn func() error) *Subscription {
	return &Subscription{
		updates: updates,
		done:    make(chan struct{}),
		closeFn: closeFn,
	}
}

// Updates returns the channel of written documents. It is closed when the
// subscription ends.
func (s *Subscription) Updates() <-chan *models.Session {
	return s.updates
}

// Done is closed once Close has been called
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription
func (s *Subscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		if s.closeFn != nil {
			s.err = s.closeFn()
		}
	})
	return s.err
}

type UpdateSessionInput struct {
	// SessionID is the session to modify
	SessionID string

	// MaxAttempts bounds how often the mutation is re-applied after a
	// version conflict
	MaxAttempts int

	// Mutate changes the freshly read document in place. Returning an
	// error aborts the update without writing.
	Mutate func(session *models.Session) error
}
