package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// notification queue and consumes it forever, reconnecting with
// exponential backoff after broker failures. Each message is rendered
// into an SMS text and appended to the outbox file, which is the
// seam where the external SMS provider call plugs in. Malformed
// messages are rejected without requeue so a bad payload cannot wedge
// the queue.
func StartNotificationConsumer(url, outboxPath string, log *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("sms-worker: dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, outboxPath, log); err != nil {
			log.Warn("sms-worker: consume loop ended", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, outboxPath string, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("sms-worker: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, outboxPath); err != nil {
			log.Warn("sms-worker: handle message failed", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, outboxPath string) error {
	var ev BookingNotification
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if dir := filepath.Dir(outboxPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir outbox dir: %w", err)
		}
	}
	f, err := os.OpenFile(outboxPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open outbox: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] to=%q %s\n", ev.OccurredAt, ev.CustomerPhone, smsText(ev))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write outbox: %w", err)
	}
	return nil
}

// smsText composes the customer-facing message body.
func smsText(ev BookingNotification) string {
	when := fmt.Sprintf("%s %s-%s", ev.BookingDate, short(ev.StartTime), short(ev.EndTime))
	switch ev.Event {
	case EventBookingConfirmed:
		return fmt.Sprintf("Your %s appointment on %s is confirmed. See you then!", ev.ServiceName, when)
	default:
		return fmt.Sprintf("We received your booking for %s on %s. We'll confirm shortly.", ev.ServiceName, when)
	}
}

// short trims "HH:MM:SS" to "HH:MM" for display.
func short(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}
