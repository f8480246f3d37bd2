package domain

import (
	"encoding/json"
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

type SlotStatusKind string

const (
	SlotStatusAvailable SlotStatusKind = "available"
	SlotStatusBooked    SlotStatusKind = "booked"
	SlotStatusBlocked   SlotStatusKind = "blocked"
)

// SlotStatus закрытый набор: Available, Booked, Blocked
type SlotStatus interface {
	Kind() SlotStatusKind
	isSlotStatus()
}

type Available struct{}

type Booked struct {
	AppointmentID string
	ClientLabel   string
}

type Blocked struct {
	BlockID string
	Reason  string
}

func (Available) Kind() SlotStatusKind { return SlotStatusAvailable }
func (Booked) Kind() SlotStatusKind    { return SlotStatusBooked }
func (Blocked) Kind() SlotStatusKind   { return SlotStatusBlocked }

func (Available) isSlotStatus() {}
func (Booked) isSlotStatus()    {}
func (Blocked) isSlotStatus()   {}

// ResolvedSlot: вычисленный статус одного времени слота.
// SlotID пустой у записи, для которой слот уже удален.
type ResolvedSlot struct {
	StartTime       json_types.TimeOfDay
	DurationMinutes int
	SlotID          string
	Status          SlotStatus
}

type resolvedSlotJSON struct {
	StartTime       json_types.TimeOfDay `json:"startTime"`
	DurationMinutes int                  `json:"durationMinutes"`
	SlotID          string               `json:"slotId,omitempty"`
	Status          SlotStatusKind       `json:"status"`
	AppointmentID   string               `json:"appointmentId,omitempty"`
	ClientLabel     string               `json:"clientLabel,omitempty"`
	BlockID         string               `json:"blockId,omitempty"`
	Reason          string               `json:"reason,omitempty"`
}

func (s ResolvedSlot) MarshalJSON() ([]byte, error) {
	out := resolvedSlotJSON{
		StartTime:       s.StartTime,
		DurationMinutes: s.DurationMinutes,
		SlotID:          s.SlotID,
	}

	switch status := s.Status.(type) {
	case Booked:
		out.Status = SlotStatusBooked
		out.AppointmentID = status.AppointmentID
		out.ClientLabel = status.ClientLabel
	case Blocked:
		out.Status = SlotStatusBlocked
		out.BlockID = status.BlockID
		out.Reason = status.Reason
	default:
		out.Status = SlotStatusAvailable
	}

	return json.Marshal(out)
}

func (s *ResolvedSlot) UnmarshalJSON(data []byte) error {
	var in resolvedSlotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	s.StartTime = in.StartTime
	s.DurationMinutes = in.DurationMinutes
	s.SlotID = in.SlotID

	switch in.Status {
	case SlotStatusAvailable:
		s.Status = Available{}
	case SlotStatusBooked:
		s.Status = Booked{AppointmentID: in.AppointmentID, ClientLabel: in.ClientLabel}
	case SlotStatusBlocked:
		s.Status = Blocked{BlockID: in.BlockID, Reason: in.Reason}
	default:
		return fmt.Errorf("unknown slot status: %q", in.Status)
	}
	return nil
}

// Kind статус слота, nil считается доступным
func (s ResolvedSlot) Kind() SlotStatusKind {
	if s.Status == nil {
		return SlotStatusAvailable
	}
	return s.Status.Kind()
}
