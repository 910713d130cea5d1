package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"OnAirFM/db"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Session is the server-side state behind a bearer token.
type Session struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// CreateSession stores a new session in Redis and returns its id.
func CreateSession(ctx context.Context, userID int64, username, role string, ttl time.Duration) (string, error) {
	if db.RedisClient == nil {
		return "", fmt.Errorf("Redis client not initialized")
	}

	now := time.Now()
	session := Session{
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	id := uuid.NewString()
	if err := db.RedisClient.Set(ctx, sessionKey(id), payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// GetSession loads a session by id. Returns nil when the session does not
// exist or has expired.
func GetSession(ctx context.Context, id string) (*Session, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	payload, err := db.RedisClient.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session, logging the user out server-side.
func DeleteSession(ctx context.Context, id string) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	if err := db.RedisClient.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
