package models

// MaxEventLog is the number of roll events kept on a session document
const MaxEventLog = 100

// Session is the shared document every player in a room reads and writes
type Session struct {
	// ID is the unique identifier issued by the store on creation
	ID string `json:"id"`

	// Players are the participants, in join order
	Players []*Player `json:"players"`

	// Rolls is the roll history, oldest first
	Rolls []*Roll `json:"rolls"`

	// Events is the append-only log of resolved rolls
	Events []*RollEvent `json:"events"`

	// CreatedAt is when the session was created, in Unix milliseconds
	CreatedAt int64 `json:"createdAt"`

	// Version is bumped by the store on every successful write
	Version int64 `json:"version"`
}

// HasPlayer reports whether a player with the given nick is in the session
func (s *Session) HasPlayer(nick string) bool {
	for _, p := range s.Players {
		if p.Nick == nick {
			return true
		}
	}
	return false
}

// FindRoll returns the index of the roll with the given ID, or -1
func (s *Session) FindRoll(rollID string) int {
	for i := len(s.Rolls) - 1; i >= 0; i-- {
		if s.Rolls[i].ID == rollID {
			return i
		}
	}
	return -1
}

// LastEventSeq returns the sequence number of the newest event, or 0
func (s *Session) LastEventSeq() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Seq
}

// AppendEvent adds an event with the next sequence number and trims the
// log to MaxEventLog entries
func (s *Session) AppendEvent(event *RollEvent) {
	event.Seq = s.LastEventSeq() + 1
	s.Events = append(s.Events, event)
	if len(s.Events) > MaxEventLog {
		s.Events = s.Events[len(s.Events)-MaxEventLog:]
	}
}

// LastResolvedRoll returns the newest roll that is no longer pending
func (s *Session) LastResolvedRoll() *Roll {
	for i := len(s.Rolls) - 1; i >= 0; i-- {
		if !s.Rolls[i].Pending {
			return s.Rolls[i]
		}
	}
	return nil
}
