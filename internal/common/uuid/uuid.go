package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/diceroom/internal/common/uuid UUID

type UUID interface {
	// NewUUID returns a random identifier
	NewUUID() string

	// NewOrderedUUID returns an identifier that sorts by creation time
	NewOrderedUUID() (string, error)
}

// DefaultUUID implements the UUID interface using the uuid package
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// NewOrderedUUID returns a new version 7 UUID
func (d *DefaultUUID) NewOrderedUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
