package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendEvent(t *testing.T) {
	s := &Session{}

	s.AppendEvent(&RollEvent{RollID: "a"})
	s.AppendEvent(&RollEvent{RollID: "b"})

	require.Len(t, s.Events, 2)
	assert.Equal(t, int64(1), s.Events[0].Seq)
	assert.Equal(t, int64(2), s.Events[1].Seq)
	assert.Equal(t, int64(2), s.LastEventSeq())
}

func TestSessionAppendEventTrimsOldest(t *testing.T) {
	s := &Session{}
	for i := 0; i < MaxEventLog+5; i++ {
		s.AppendEvent(&RollEvent{})
	}

	require.Len(t, s.Events, MaxEventLog)
	assert.Equal(t, int64(6), s.Events[0].Seq)
	assert.Equal(t, int64(MaxEventLog+5), s.LastEventSeq())
}

func TestSessionFindRoll(t *testing.T) {
	s := &Session{Rolls: []*Roll{{ID: "first"}, {ID: "second"}}}

	assert.Equal(t, 1, s.FindRoll("second"))
	assert.Equal(t, -1, s.FindRoll("missing"))
}

func TestSessionLastResolvedRoll(t *testing.T) {
	s := &Session{Rolls: []*Roll{
		{ID: "old", Value: 3},
		{ID: "new", Pending: true},
	}}

	last := s.LastResolvedRoll()
	require.NotNil(t, last)
	assert.Equal(t, "old", last.ID)

	assert.Nil(t, (&Session{}).LastResolvedRoll())
}

func TestSessionHasPlayer(t *testing.T) {
	s := &Session{Players: []*Player{{Nick: "Alice"}}}

	assert.True(t, s.HasPlayer("Alice"))
	assert.False(t, s.HasPlayer("alice"))
}
