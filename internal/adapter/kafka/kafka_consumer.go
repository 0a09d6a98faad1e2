package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

// HandlerFunc processes a decoded capture notification. Returning nil marks
// the message; returning an error leaves it for redelivery, so handlers must
// only fail for transient reasons.
type HandlerFunc func(ctx context.Context, msg usecase.PaymentCapturedMsg) error

// Consumer consumes one topic with a single handler.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
	Logger *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc, l *slog.Logger) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
		Logger: l,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	for {
		err := c.Group.Consume(ctx, c.Topics, handler)
		// Consume returns on ctx cancellation, a rebalance, or an aborted
		// session (transient handler failure).
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if c.Logger != nil {
				c.Logger.Error("consume session failed, rejoining", "err", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.PaymentCapturedMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			if h.logger != nil {
				h.logger.Warn("kafka decode error", "err", err, "offset", msg.Offset)
			}
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}
		if err := h.handle(sess.Context(), ev); err != nil {
			if h.logger != nil {
				h.logger.Error("handler error", "err", err, "key", string(msg.Key), "offset", msg.Offset)
			}
			// Abort the session with the offset uncommitted. Marking a later
			// message would commit past this one and lose it; handlers only
			// fail for transient reasons, so the redelivery will succeed.
			return err
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
