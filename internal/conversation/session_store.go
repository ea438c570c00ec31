package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	sessionKeyPrefix    = "booking_session:"
	transcriptKeyPrefix = "chat_transcript:"
	maxTranscriptLines  = 250
)

// SessionStore persists booking sessions and chat transcripts in Redis.
// Everything is TTL-bounded; an abandoned conversation simply expires.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewSessionStore creates a session store with the given TTL.
func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if redisClient == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		redis:  redisClient,
		ttl:    ttl,
		tracer: otel.Tracer("medichat.internal.conversation.sessions"),
	}
}

// Save persists the session state.
func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_session")
	defer span.End()

	if sess == nil || sess.ID == "" {
		return errors.New("conversation: session id required")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: persist session: %w", err)
	}
	return nil
}

// Load fetches a session; a missing key yields a fresh idle session.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Session{ID: sessionID}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session outright.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("conversation: delete session: %w", err)
	}
	return nil
}

// TranscriptLine is one user or assistant turn in the chat history.
type TranscriptLine struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// AppendTranscript records a turn, trimming the history to a bounded length.
func (s *SessionStore) AppendTranscript(ctx context.Context, sessionID string, line TranscriptLine) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_transcript")
	defer span.End()

	if line.Timestamp.IsZero() {
		line.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("conversation: marshal transcript line: %w", err)
	}

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	pipe.LTrim(ctx, key, -maxTranscriptLines, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: append transcript: %w", err)
	}
	return nil
}

// Transcript returns up to limit most recent turns, oldest first.
func (s *SessionStore) Transcript(ctx context.Context, sessionID string, limit int64) ([]TranscriptLine, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_transcript")
	defer span.End()

	if limit <= 0 {
		limit = maxTranscriptLines
	}
	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), -limit, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: load transcript: %w", err)
	}

	lines := make([]TranscriptLine, 0, len(raw))
	for _, item := range raw {
		var line TranscriptLine
		if err := json.Unmarshal([]byte(item), &line); err != nil {
			continue // skip unreadable entries rather than failing the chat
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func transcriptKey(id string) string {
	return transcriptKeyPrefix + id
}
