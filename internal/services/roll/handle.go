package roll

import (
	"context"

	"github.com/KirkDiggler/diceroom/internal/models"
)

// frameBuffer is how many frames may wait for a reader before new ones are dropped
const frameBuffer = 4

// RollHandle follows one roll from its pending write to its resolution
type RollHandle struct {
	pending *models.Roll
	frames  chan Frame
	done    chan struct{}
	cancel  context.CancelFunc

	// Set before done is closed
	result *models.Roll
	event  *models.RollEvent
	err    error
}

func newRollHandle(pending *models.Roll, cancel context.CancelFunc) *RollHandle {
	return &RollHandle{
		pending: pending,
		frames:  make(chan Frame, frameBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// Roll returns the roll as it was committed, still pending
func (h *RollHandle) Roll() *models.Roll {
	r := *h.pending
	return &r
}

// Frames delivers animation frames and is closed when the animation ends.
// Frames are dropped when the reader falls behind.
func (h *RollHandle) Frames() <-chan Frame {
	return h.frames
}

// Done is closed once the task has finished, resolved or not
func (h *RollHandle) Done() <-chan struct{} {
	return h.done
}

// Cancel stops the task. A roll that has not been resolved yet stays pending.
// Cancelling is best effort once the outcome is being committed: if the
// write reaches the store first the roll resolves and Wait returns it.
func (h *RollHandle) Cancel() {
	h.cancel()
}

// Wait blocks until the task finishes and returns the resolved roll
func (h *RollHandle) Wait(ctx context.Context) (*models.Roll, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Event returns the event appended on resolution, nil until then
func (h *RollHandle) Event() *models.RollEvent {
	select {
	case <-h.done:
		return h.event
	default:
		return nil
	}
}

func (h *RollHandle) emit(frame Frame) bool {
	select {
	case h.frames <- frame:
		return true
	default:
		return false
	}
}

func (h *RollHandle) finish(result *models.Roll, event *models.RollEvent, err error) {
	h.result = result
	h.event = event
	h.err = err
	h.cancel()
	close(h.done)
}
