package bm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnInterval = 5 * time.Second

// RabbitMQ receives admin events from a fanout exchange through an exclusive,
// auto-deleted queue. It is the alternative to the websocket channel when the
// console runs next to the backend's broker.
type RabbitMQ struct {
	cfg   *config.RabbitMqconfig
	mylog mylogger.Logger
	conn  *amqp.Connection
	ch    *amqp.Channel
	mu    *sync.Mutex
}

var _ ports.IEventSubscriber = (*RabbitMQ)(nil)

func New(rabbitmqCfg *config.RabbitMqconfig, mylog mylogger.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg:   rabbitmqCfg,
		mylog: mylog.With("transport", "amqp", "exchange", rabbitmqCfg.Exchange),
		mu:    &sync.Mutex{},
	}
}

// Subscribe consumes events until ctx is done. A dropped connection is retried
// every few seconds.
func (r *RabbitMQ) Subscribe(ctx context.Context, handler func(dto.Event)) error {
	if err := r.connect(); err != nil {
		return fmt.Errorf("rabbit connect: %w", err)
	}
	defer r.Close()

	for {
		err := r.consume(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.mylog.Action("mb_consume_stopped").Warn("event consumer stopped", "error", errString(err))
		if err := r.reconnect(ctx); err != nil {
			return err
		}
	}
}

func (r *RabbitMQ) consume(ctx context.Context, handler func(dto.Event)) error {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()
	if ch == nil {
		return errors.New("amqp closed")
	}

	if err := ch.ExchangeDeclare(r.cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", r.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	r.mylog.Action("mb_consuming").Info("listening for admin events", "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ev, ok := decodeEvent(m.Body, m.Type)
			if !ok {
				r.mylog.Action("mb_message_skipped").Debug("skipping message that is not an admin event")
				continue
			}
			handler(ev)
		}
	}
}

// decodeEvent reads an event body. The AMQP type property fills in a missing
// event type.
func decodeEvent(body []byte, msgType string) (dto.Event, bool) {
	var ev dto.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return dto.Event{}, false
	}
	if ev.Type == "" {
		ev.Type = msgType
	}
	return ev, ev.Type != ""
}

func (r *RabbitMQ) IsAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return false
	}
	return true
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) error {
	_ = r.Close()

	t := time.NewTicker(reconnInterval)
	defer t.Stop()
	l := r.mylog.Action("mb_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				l.Action("mb_reconnection_completed").Info("reconnected")
				return nil
			}
			l.Info("reconnect failed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
