package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

var ErrMalformedMessage = errors.New("malformed record change message")

type (
	RecordChangeAction   string
	RecordChangeResource string
)

const (
	RecordChangeResourceAll         RecordChangeResource = "_all_"
	RecordChangeResourceSlot        RecordChangeResource = "slot"
	RecordChangeResourceBlock       RecordChangeResource = "block"
	RecordChangeResourceAppointment RecordChangeResource = "appointment"
)

const RecordChangeActionInvalidate RecordChangeAction = "invalidate"

type RecordChangeRoutingKey struct {
	Source     string
	Receiver   string
	Resource   RecordChangeResource
	ProviderID string
	Action     RecordChangeAction
}

// RecordChangeMessage пустая дата значит "все дни барбера"
type RecordChangeMessage struct {
	ProviderID string `json:"providerId"`
	Date       string `json:"date"`
}

// Пример routingKey:
// recordstore.availability-svc.slot.7.invalidate
// recordstore.availability-svc.appointment.7.invalidate
// recordstore.availability-svc._all_._all_.invalidate
func parseRoutingKey(routingKey string) (RecordChangeRoutingKey, error) {
	parts := strings.Split(routingKey, ".")
	if len(parts) != 5 {
		return RecordChangeRoutingKey{}, fmt.Errorf("invalid routing key %q: %w", routingKey, ErrMalformedMessage)
	}

	key := RecordChangeRoutingKey{
		Source:     parts[0],
		Receiver:   parts[1],
		Resource:   RecordChangeResource(parts[2]),
		ProviderID: parts[3],
		Action:     RecordChangeAction(parts[4]),
	}

	switch key.Resource {
	case RecordChangeResourceAll, RecordChangeResourceSlot, RecordChangeResourceBlock, RecordChangeResourceAppointment:
	default:
		return RecordChangeRoutingKey{}, fmt.Errorf("unknown resource %q: %w", key.Resource, ErrMalformedMessage)
	}

	return key, nil
}

func (l *RecordChangeListener) handle(ctx context.Context, routingKey string, body []byte) error {
	key, err := parseRoutingKey(routingKey)
	if err != nil {
		return err
	}

	if key.Action != RecordChangeActionInvalidate {
		l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
			"routingKey": routingKey,
		})
		return nil
	}

	if key.Resource == RecordChangeResourceAll {
		if err := l.useCase.InvalidateAll(ctx); err != nil {
			return err
		}
		l.logger.Info("rabbitmq.all.invalidated", out.LogFields{})
		return nil
	}

	var msg RecordChangeMessage
	if len(body) > 0 {
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("decode body: %v: %w", err, ErrMalformedMessage)
		}
	}
	if msg.ProviderID == "" {
		msg.ProviderID = key.ProviderID
	}
	if msg.ProviderID == "" {
		return fmt.Errorf("providerId is required: %w", ErrMalformedMessage)
	}

	if msg.Date == "" {
		if err := l.useCase.InvalidateProvider(ctx, msg.ProviderID); err != nil {
			return err
		}
		l.logger.Info("rabbitmq.provider.invalidated", out.LogFields{
			"resource":   key.Resource,
			"providerId": msg.ProviderID,
		})
		return nil
	}

	date, err := json_types.ParseDate(msg.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", msg.Date, ErrMalformedMessage)
	}
	if err := l.useCase.InvalidateDay(ctx, msg.ProviderID, date); err != nil {
		return err
	}

	l.logger.Info("rabbitmq.day.invalidated", out.LogFields{
		"resource":   key.Resource,
		"providerId": msg.ProviderID,
		"date":       date,
	})
	return nil
}
