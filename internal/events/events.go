// Package events connects the match service to the Redis pub/sub bus shared
// by the jobmate services.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/store"
)

// ChannelAnalyzeJob is published by the tracker when an application is created.
const ChannelAnalyzeJob = "CMD_ANALYZE_JOB"

// ─── Publisher ───────────────────────────────────────────────────────────────

// RedisPublisher publishes JSON payloads with PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a publisher bound to rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals payload and publishes it on channel.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", channel, err)
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// ─── Subscriber ──────────────────────────────────────────────────────────────

// AnalyzeCommand is the CMD_ANALYZE_JOB payload.
type AnalyzeCommand struct {
	Type          string `json:"type"`
	ApplicationID string `json:"applicationId"`
	JobFeedID     string `json:"jobFeedId"`
	UserID        string `json:"userId"`
}

// DecodeAnalyzeCommand parses and checks a CMD_ANALYZE_JOB payload.
func DecodeAnalyzeCommand(payload string) (AnalyzeCommand, error) {
	var cmd AnalyzeCommand
	if err := json.Unmarshal([]byte(payload), &cmd); err != nil {
		return cmd, fmt.Errorf("decode %s: %w", ChannelAnalyzeJob, err)
	}
	if cmd.Type != "" && cmd.Type != ChannelAnalyzeJob {
		return cmd, fmt.Errorf("unexpected event type %q", cmd.Type)
	}
	if cmd.UserID == "" || cmd.ApplicationID == "" {
		return cmd, errors.New("userId and applicationId are required")
	}
	return cmd, nil
}

// ApplicationScorer is the part of the match service the subscriber drives.
type ApplicationScorer interface {
	ScoreApplication(ctx context.Context, userID, appID string) (*store.ScoreRecord, error)
}

// Subscriber scores applications announced on CMD_ANALYZE_JOB.
type Subscriber struct {
	rdb    *redis.Client
	scorer ApplicationScorer
	log    *zap.Logger
}

// NewSubscriber returns a Subscriber.
func NewSubscriber(rdb *redis.Client, scorer ApplicationScorer, log *zap.Logger) *Subscriber {
	return &Subscriber{rdb: rdb, scorer: scorer, log: logger.WithFields(log).Named("events")}
}

// Run blocks until ctx is cancelled or the subscription channel closes.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.rdb.Subscribe(ctx, ChannelAnalyzeJob)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ChannelAnalyzeJob, err)
	}
	s.log.Info("subscribed", zap.String("channel", ChannelAnalyzeJob))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.Handle(ctx, msg.Payload)
		}
	}
}

// Handle processes one payload. Failures are logged, never returned, so one
// bad message cannot stop the subscription.
func (s *Subscriber) Handle(ctx context.Context, payload string) {
	cmd, err := DecodeAnalyzeCommand(payload)
	if err != nil {
		s.log.Warn("dropping message", zap.Error(err), zap.String("payload", logger.TruncateForLog(payload, 200)))
		return
	}

	if _, err := s.scorer.ScoreApplication(ctx, cmd.UserID, cmd.ApplicationID); err != nil {
		s.log.Warn("score application failed",
			append(logger.ScoreFields(cmd.UserID, cmd.ApplicationID), zap.Error(err))...)
	}
}
