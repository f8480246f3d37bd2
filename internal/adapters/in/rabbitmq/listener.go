package rabbitmq

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/in"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

// RecordChangeListener получает события изменения записей в хранилище
// и сбрасывает соответствующие дни в кэше этого процесса
type RecordChangeListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.AvailabilityUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

func NewRecordChangeListener(useCase in.AvailabilityUseCase, cfg *config.Config, logger out.LoggerPort) (*RecordChangeListener, error) {
	logger = logger.WithModule("RabbitMQListener")

	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &RecordChangeListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *RecordChangeListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMQ.Bind,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go l.consume(ctx, msgs)

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue":    queue.Name,
		"exchange": l.cfg.RabbitMQ.Exchange,
		"bind":     l.cfg.RabbitMQ.Bind,
	})

	return nil
}

func (l *RecordChangeListener) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				l.logger.Warn("rabbitmq.queue.closed", out.LogFields{})
				return
			}
			l.settle(msg, l.handle(ctx, msg.RoutingKey, msg.Body))
		}
	}
}

// settle некорректное сообщение подтверждается и выбрасывается, ошибка обработки возвращает его в очередь
func (l *RecordChangeListener) settle(msg amqp.Delivery, err error) {
	switch {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, ErrMalformedMessage):
		l.logger.Error("rabbitmq.message.dropped", out.LogFields{
			"routingKey": msg.RoutingKey,
			"error":      err.Error(),
		})
		msg.Ack(false)
	default:
		l.logger.Error("rabbitmq.message.failed", out.LogFields{
			"routingKey": msg.RoutingKey,
			"error":      err.Error(),
		})
		msg.Nack(false, true) // requeue message
	}
}

func (l *RecordChangeListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
