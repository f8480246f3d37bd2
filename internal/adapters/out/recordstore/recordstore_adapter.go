package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strings"

	"github.com/suchimauz/barber-availability-engine/internal/config"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

type RecordStoreAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewRecordStoreAdapter(cfg *config.Config, logger out.LoggerPort) *RecordStoreAdapter {
	return &RecordStoreAdapter{
		client:   &http.Client{Timeout: cfg.RecordStore.Timeout},
		baseURL:  strings.TrimRight(cfg.RecordStore.URL, "/"),
		username: cfg.RecordStore.Username,
		password: cfg.RecordStore.Password,
		logger:   logger.WithModule("RecordStoreAdapter"),
	}
}

// conflictErrors во что превращается 409 для конкретной операции
var conflictErrors = map[string]error{
	"create_slot":               domain.ErrSlotConflict,
	"create_appointment":        domain.ErrSlotNotAvailable,
	"update_appointment_status": domain.ErrInvalidTransition,
}

// do выполняет запрос и декодирует ответ в result (если result != nil).
// Сеть, 5xx и нечитаемое тело: TransportError. 404: ErrNotFound. 409: ошибка из conflictErrors.
func (a *RecordStoreAdapter) do(ctx context.Context, op, method, path string, body interface{}, result interface{}, fields out.LogFields) error {
	event := "recordstore." + op

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			a.logger.Error(event+".encode_failed", withError(fields, err))
			return fmt.Errorf("%s.encode_failed: %w", event, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		a.logger.Error(event+".failed", withError(fields, err))
		return &domain.TransportError{Op: event, Err: err}
	}
	req.SetBasicAuth(a.username, a.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(event+".failed", withError(fields, err))
		return &domain.TransportError{Op: event, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		a.logger.Warn(event+".not_found", withStatus(fields, resp.StatusCode))
		return fmt.Errorf("%s.not_found: %w", event, domain.ErrNotFound)
	case resp.StatusCode == http.StatusConflict && conflictErrors[op] != nil:
		a.logger.Warn(event+".conflict", withStatus(fields, resp.StatusCode))
		return fmt.Errorf("%s.conflict: %w", event, conflictErrors[op])
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		a.logger.Error(event+".failed", withStatus(fields, resp.StatusCode))
		return &domain.TransportError{Op: event, StatusCode: resp.StatusCode}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			a.logger.Error(event+".decode_failed", withError(fields, err))
			return &domain.TransportError{Op: event, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	a.logger.Debug(event+".succeeded", fields)
	return nil
}

func withError(fields out.LogFields, err error) out.LogFields {
	merged := out.LogFields{"error": err.Error()}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func withStatus(fields out.LogFields, status int) out.LogFields {
	merged := out.LogFields{"status": status}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *RecordStoreAdapter) GetDayRecords(ctx context.Context, providerID string, date json_types.Date) (domain.DayRecords, error) {
	path := fmt.Sprintf("/providers/%s/days/%s", nurl.PathEscape(providerID), date)

	var records domain.DayRecords
	err := a.do(ctx, "get_day", http.MethodGet, path, nil, &records, out.LogFields{
		"providerId": providerID,
		"date":       date,
	})
	if err != nil {
		// Дня нет в хранилище: пустой день, а не ошибка
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DayRecords{}, nil
		}
		return domain.DayRecords{}, err
	}

	return records, nil
}

func (a *RecordStoreAdapter) GetSlot(ctx context.Context, slotID string) (*domain.Slot, error) {
	var slot domain.Slot
	if err := a.do(ctx, "get_slot", http.MethodGet, "/slots/"+nurl.PathEscape(slotID), nil, &slot, out.LogFields{
		"slotId": slotID,
	}); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (a *RecordStoreAdapter) GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := a.do(ctx, "get_appointment", http.MethodGet, "/appointments/"+nurl.PathEscape(appointmentID), nil, &appointment, out.LogFields{
		"appointmentId": appointmentID,
	}); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (a *RecordStoreAdapter) GetBlock(ctx context.Context, blockID string) (*domain.Block, error) {
	var block domain.Block
	if err := a.do(ctx, "get_block", http.MethodGet, "/blocks/"+nurl.PathEscape(blockID), nil, &block, out.LogFields{
		"blockId": blockID,
	}); err != nil {
		return nil, err
	}
	return &block, nil
}

func (a *RecordStoreAdapter) CreateSlot(ctx context.Context, slot domain.Slot) (*domain.Slot, error) {
	var created domain.Slot
	if err := a.do(ctx, "create_slot", http.MethodPost, "/slots", slot, &created, out.LogFields{
		"providerId": slot.ProviderID,
		"date":       slot.Date,
		"startTime":  slot.StartTime,
	}); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *RecordStoreAdapter) DeleteSlot(ctx context.Context, slotID string) error {
	return a.do(ctx, "delete_slot", http.MethodDelete, "/slots/"+nurl.PathEscape(slotID), nil, nil, out.LogFields{
		"slotId": slotID,
	})
}

func (a *RecordStoreAdapter) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	var created domain.Appointment
	if err := a.do(ctx, "create_appointment", http.MethodPost, "/appointments", appointment, &created, out.LogFields{
		"providerId": appointment.ProviderID,
		"date":       appointment.Date,
		"startTime":  appointment.StartTime,
		"status":     appointment.Status,
	}); err != nil {
		return nil, err
	}
	return &created, nil
}

type statusPatch struct {
	Status domain.AppointmentStatus `json:"status"`
}

func (a *RecordStoreAdapter) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	var updated domain.Appointment
	if err := a.do(ctx, "update_appointment_status", http.MethodPatch, "/appointments/"+nurl.PathEscape(appointmentID), statusPatch{Status: status}, &updated, out.LogFields{
		"appointmentId": appointmentID,
		"status":        status,
	}); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *RecordStoreAdapter) CreateBlock(ctx context.Context, block domain.Block) (*domain.Block, error) {
	var created domain.Block
	if err := a.do(ctx, "create_block", http.MethodPost, "/blocks", block, &created, out.LogFields{
		"providerId": block.ProviderID,
		"date":       block.Date,
		"isFullDay":  block.IsFullDay,
	}); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *RecordStoreAdapter) DeleteBlock(ctx context.Context, blockID string) error {
	return a.do(ctx, "delete_block", http.MethodDelete, "/blocks/"+nurl.PathEscape(blockID), nil, nil, out.LogFields{
		"blockId": blockID,
	})
}
