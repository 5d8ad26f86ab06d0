package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/mq"
	"github.com/quill-blog/server/types"
)

// Publisher is the broker side of EventPublisher; *mq.MQ satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// EventPublisher emits domain events. A nil *EventPublisher, or one
// without a broker, drops events silently.
type EventPublisher struct {
	pub     Publisher
	channel string
	logger  *zap.Logger
	now     func() time.Time
}

func NewEventPublisher(pub Publisher, channel string, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{
		pub:     pub,
		channel: channel,
		logger:  logger,
		now:     time.Now,
	}
}

// Emit publishes ev. Broker failures are logged, not returned.
func (p *EventPublisher) Emit(ctx context.Context, ev types.Event) {
	if p == nil || p.pub == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("encode event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}

	attrs := map[string]string{
		mq.AttrContentType: "application/json",
		mq.AttrEventType:   string(ev.Type),
	}
	id, err := p.pub.Publish(ctx, p.channel, data, attrs)
	if err != nil {
		p.logger.Warn("publish event",
			zap.String("type", string(ev.Type)),
			zap.String("channel", p.channel),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("event published", zap.String("type", string(ev.Type)), zap.String("message_id", id))
}

// DecodeEvent parses a broker message produced by Emit.
func DecodeEvent(msg mq.Message) (types.Event, error) {
	var ev types.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return types.Event{}, err
	}
	return ev, nil
}

// LogEvents returns a broker handler that records each event in the log.
// Undecodable messages are logged and acknowledged so they are not
// redelivered forever.
func LogEvents(logger *zap.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		ev, err := DecodeEvent(msg)
		if err != nil {
			logger.Warn("drop malformed event", zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}
		logger.Info("event",
			zap.String("message_id", msg.ID),
			zap.String("type", string(ev.Type)),
			zap.Time("occurred_at", ev.OccurredAt),
			zap.Int("actor_id", ev.ActorID),
			zap.Int("user_id", ev.UserID),
			zap.Int("post_id", ev.PostID),
			zap.Int("comment_id", ev.CommentID),
			zap.Int("role_id", ev.RoleID),
			zap.String("title", ev.Title),
		)
		return nil
	}
}
