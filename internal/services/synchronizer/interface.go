package synchronizer

import "context"

// Service keeps clients in step with a shared session document
type Service interface {
	// Subscribe starts following a session. The first snapshot is the
	// document as it was when the subscription began.
	Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error)
}
