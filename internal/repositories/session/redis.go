package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/diceroom/internal/common/uuid"
	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix = "session:"
	updatesSuffix    = ":updates"

	// subscriptionBuffer is how many undelivered documents a subscriber may lag behind
	subscriptionBuffer = 16
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrVersionConflict is returned when the stored document changed since it was read
var ErrVersionConflict = errors.New("session was modified concurrently")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// UUIDGenerator issues session IDs, defaults to time-ordered UUIDs
	UUIDGenerator uuid.UUID
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	uuid   uuid.UUID
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	generator := cfg.UUIDGenerator
	if generator == nil {
		generator = uuid.New()
	}

	return &redisRepository{
		client: cfg.RedisClient,
		uuid:   generator,
	}, nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func updatesChannel(sessionID string) string {
	return sessionKeyPrefix + sessionID + updatesSuffix
}

// NewSessionID allocates a time-ordered session ID
func (r *redisRepository) NewSessionID(ctx context.Context) (string, error) {
	id, err := r.uuid.NewOrderedUUID()
	if err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return id, nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKey(input.SessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(sessionJSON, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// SaveSession writes the session and publishes it to subscribers in one
// transaction. The key is watched so a write that lands between the version
// check and the commit aborts the transaction.
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if input.Session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	key := sessionKey(input.Session.ID)

	var saved int64
	txf := func(tx *redis.Tx) error {
		current, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}

		if current != input.ExpectedVersion {
			return ErrVersionConflict
		}

		// A caller that gave up after the document was read writes nothing
		if err := ctx.Err(); err != nil {
			return err
		}

		next := withEmptyLists(input.Session)
		next.Version = current + 1

		sessionJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, 0) // No expiration for now
			pipe.Publish(ctx, updatesChannel(next.ID), sessionJSON)
			return nil
		})
		if err != nil {
			return err
		}

		saved = next.Version
		return nil
	}

	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, ErrVersionConflict) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	input.Session.Version = saved
	return nil
}

// Subscribe streams session documents published by SaveSession. The
// subscription is confirmed before returning so no write after this call
// is missed.
func (r *redisRepository) Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	pubsub := r.client.Subscribe(ctx, updatesChannel(input.SessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to session: %w", err)
	}

	updates := make(chan *models.Session, subscriptionBuffer)
	sub := NewSubscription(updates, pubsub.Close)
	messages := pubsub.Channel()

	go func() {
		defer close(updates)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var session models.Session
				if err := json.Unmarshal([]byte(msg.Payload), &session); err != nil {
					log.Warn().
						Err(err).
						Str("session_id", input.SessionID).
						Msg("dropping undecodable session update")
					continue
				}

				select {
				case updates <- &session:
				case <-ctx.Done():
					return
				case <-sub.Done():
					return
				}
			}
		}
	}()

	return sub, nil
}

// storedVersion reads only the version of the stored document, 0 if absent
func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, error) {
	sessionJSON, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read session version: %w", err)
	}

	var stored struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(sessionJSON, &stored); err != nil {
		return 0, fmt.Errorf("failed to unmarshal session version: %w", err)
	}

	return stored.Version, nil
}

// withEmptyLists returns a shallow copy whose lists encode as [] rather than null
func withEmptyLists(session *models.Session) *models.Session {
	next := *session
	if next.Players == nil {
		next.Players = []*models.Player{}
	}
	if next.Rolls == nil {
		next.Rolls = []*models.Roll{}
	}
	if next.Events == nil {
		next.Events = []*models.RollEvent{}
	}
	return &next
}
