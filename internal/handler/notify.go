package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishMail queues msg for the mail worker.
func (h *Handler) publishMail(ctx context.Context, msg domain.MailMessage) error {
	mailData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

// notifyChange tells realtime subscribers that table changed. The write has already
// committed at this point, so a failed publish is only logged.
func (h *Handler) notifyChange(r *http.Request, table string, changeType domain.ChangeType, recordID string) {
	event := domain.ChangeEvent{
		Table:           table,
		Type:            changeType,
		RecordID:        recordID,
		CommitTimestamp: time.Now().UTC(),
	}

	if err := h.broker.Publish(context.WithoutCancel(r.Context()), event); err != nil {
		slog.Error("failed to publish change event", "table", table, "type", changeType, "id", recordID, "error", err)
	}
}
