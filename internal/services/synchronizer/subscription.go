package synchronizer

import (
	"context"
	"sync"

	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/rs/zerolog/log"
)

// Subscription follows one session document
type Subscription struct {
	sessionID string
	source    *sessionRepo.Subscription

	snapshots chan *models.Session
	events    chan *RollCompleted
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	latest  *models.Session
	lastSeq int64
}

func newSubscription(sessionID string, source *sessionRepo.Subscription, initial *models.Session) *Subscription {
	sub := &Subscription{
		sessionID: sessionID,
		source:    source,
		snapshots: make(chan *models.Session, 1),
		events:    make(chan *RollCompleted, eventBuffer),
		done:      make(chan struct{}),
		latest:    initial,
		// History present at subscribe time is never announced
		lastSeq: initial.LastEventSeq(),
	}
	sub.snapshots <- initial
	return sub
}

// Snapshots delivers the newest session document. A snapshot that has not
// been read is replaced by a newer one. Closed when the subscription ends.
func (s *Subscription) Snapshots() <-chan *models.Session {
	return s.snapshots
}

// Events delivers one notification per resolved roll, in order. Closed
// when the subscription ends. A reader that ignores Events still receives
// snapshots; notifications it does not read are held back up to
// maxPendingEvents and then dropped oldest first.
func (s *Subscription) Events() <-chan *RollCompleted {
	return s.events
}

// Latest returns the current snapshot
func (s *Subscription) Latest() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Close ends the subscription
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.source.Close()
	})
	return err
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.snapshots)
	defer close(s.events)
	defer s.Close()

	// Notifications wait here so a reader that is slow on Events never
	// holds back snapshots
	var pending []*RollCompleted

	for {
		var out chan<- *RollCompleted
		var next *RollCompleted
		if len(pending) > 0 {
			out = s.events
			next = pending[0]
		}

		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case update, ok := <-s.source.Updates():
			if !ok {
				return
			}
			pending = s.apply(update, pending)
		case out <- next:
			pending[0] = nil
			pending = pending[1:]
		}
	}
}

// apply replaces the snapshot and queues a notification for every event
// above the last one seen
func (s *Subscription) apply(update *models.Session, pending []*RollCompleted) []*RollCompleted {
	s.mu.Lock()
	if update.Version <= s.latest.Version {
		s.mu.Unlock()
		log.Debug().
			Str("session_id", s.sessionID).
			Int64("version", update.Version).
			Msg("ignoring stale session update")
		return pending
	}

	s.latest = update
	baseline := s.lastSeq
	if seq := update.LastEventSeq(); seq > s.lastSeq {
		s.lastSeq = seq
	}
	s.mu.Unlock()

	s.replaceSnapshot(update)

	for _, event := range update.Events {
		if event.Seq > baseline {
			pending = append(pending, newRollCompleted(s.sessionID, event))
		}
	}

	if dropped := len(pending) - maxPendingEvents; dropped > 0 {
		log.Warn().
			Str("session_id", s.sessionID).
			Int("dropped", dropped).
			Msg("roll notifications not being read, dropping oldest")
		pending = append(pending[:0:0], pending[dropped:]...)
	}

	return pending
}

// replaceSnapshot never blocks. This goroutine is the only sender, so
// after draining a stale snapshot the send always has room.
func (s *Subscription) replaceSnapshot(session *models.Session) {
	select {
	case <-s.snapshots:
	default:
	}

	s.snapshots <- session
}
