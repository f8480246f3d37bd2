package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransport         = errors.New("record store is unreachable")
	ErrSlotConflict      = errors.New("slot already exists at this time")
	ErrSlotOccupied      = errors.New("slot is booked")
	ErrSlotNotAvailable  = errors.New("slot is not available")
	ErrInvalidRange      = errors.New("invalid time range")
	ErrAlreadyTerminal   = errors.New("appointment is already completed or cancelled")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("appointment status transition is not allowed")
	ErrInvalidBooking    = errors.New("invalid booking request")
)

// TransportError хранилище недоступно или ответило неожиданно. Можно повторить запрос.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ResolutionWarning некорректная запись, исключенная из расчета дня
type ResolutionWarning struct {
	RecordKind string `json:"recordKind"`
	RecordID   string `json:"recordId"`
	Reason     string `json:"reason"`
}

func (w ResolutionWarning) Error() string {
	return fmt.Sprintf("%s %s: %s", w.RecordKind, w.RecordID, w.Reason)
}

// ErrorCode стабильный код ошибки для внешних клиентов
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "TRANSPORT_ERROR"
	case errors.Is(err, ErrSlotConflict):
		return "SLOT_CONFLICT"
	case errors.Is(err, ErrSlotOccupied):
		return "SLOT_OCCUPIED"
	case errors.Is(err, ErrSlotNotAvailable):
		return "SLOT_NOT_AVAILABLE"
	case errors.Is(err, ErrInvalidRange):
		return "INVALID_RANGE"
	case errors.Is(err, ErrAlreadyTerminal):
		return "ALREADY_TERMINAL"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrInvalidBooking):
		return "INVALID_BOOKING"
	}
	return "INTERNAL_ERROR"
}
