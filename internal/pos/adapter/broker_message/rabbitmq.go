// Package brokermessage publishes kitchen tickets to RabbitMQ.
package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/xpkg/config"
)

const (
	exchange   = "kitchen"
	routingKey = "kitchen_tickets"
)

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	log          *slog.Logger
	reconnecting bool
	mu           sync.Mutex
}

// New connects to RabbitMQ and declares the kitchen exchange. Publishes run
// in confirm mode so a dropped ticket surfaces as an error, never silently.
func New(ctx context.Context, rabbitmqCfg config.RabbitMQ, log *slog.Logger) (core.ITicketPublisher, error) {
	r := &RabbitMQ{
		ctx: ctx,
		cfg: rabbitmqCfg,
		log: log,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := ch.Confirm(false); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return core.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return core.ErrMBCh
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

func (r *RabbitMQ) PublishTicket(ctx context.Context, ticket dto.KitchenTicket) error {
	if r.conn.IsClosed() {
		r.log.Error("rabbitmq_connection_lost", "ticket_id", ticket.TicketID)
		go r.reconnect(r.ctx)
		return fmt.Errorf("rabbitmq: connection lost")
	}

	body, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return r.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(core.MBReconnInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				r.log.Info("rabbitmq_reconnected")
				return
			}
			r.log.Warn("rabbitmq_reconnect_failed")

		case <-ctx.Done():
			return
		}
	}
}
