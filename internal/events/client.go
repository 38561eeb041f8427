package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/set-night/chatexport/internal/domain"
)

// SubjectConversationExported carries one ConversationExported per export.
const SubjectConversationExported = "chatexport.conversation.exported"

type ConversationExported struct {
	ExportID     string    `json:"export_id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Format       string    `json:"format"`
	MessageCount int       `json:"message_count"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewConversationExported(rec *domain.ExportRecord) ConversationExported {
	return ConversationExported{
		ExportID:     rec.ID.String(),
		UserID:       rec.UserID,
		Title:        rec.Title,
		Format:       string(rec.Format),
		MessageCount: rec.MessageCount,
		Timestamp:    rec.CreatedAt.UTC(),
	}
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("chatexport"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishExport emits the export event for rec.
func (c *Client) PublishExport(rec *domain.ExportRecord) error {
	return c.Publish(SubjectConversationExported, NewConversationExported(rec))
}

// Close drains pending publishes before closing the connection.
func (c *Client) Close() {
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}
