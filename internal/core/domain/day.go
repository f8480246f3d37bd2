package domain

import "github.com/suchimauz/barber-availability-engine/internal/core/json_types"

type DayStatus string

const (
	DayStatusAvailable   DayStatus = "available"
	DayStatusUnavailable DayStatus = "unavailable"
	DayStatusOccupied    DayStatus = "occupied"
	DayStatusError       DayStatus = "error"
)

// DayResolution результат резолвера за один день
type DayResolution struct {
	ProviderID      string              `json:"providerId"`
	Date            json_types.Date     `json:"date"`
	Slots           []ResolvedSlot      `json:"slots"`
	CandidateCount  int                 `json:"candidateCount"`
	HasFullDayBlock bool                `json:"hasFullDayBlock"`
	Warnings        []ResolutionWarning `json:"warnings,omitempty"`
}

// SlotAt ищет вычисленный слот по времени начала
func (d DayResolution) SlotAt(start json_types.TimeOfDay) (ResolvedSlot, bool) {
	for _, slot := range d.Slots {
		if slot.StartTime.Equal(start) {
			return slot, true
		}
	}
	return ResolvedSlot{}, false
}

// DayView: день после мутации: слоты и статус для календаря
type DayView struct {
	ProviderID string          `json:"providerId"`
	Date       json_types.Date `json:"date"`
	Status     DayStatus       `json:"status"`
	Slots      []ResolvedSlot  `json:"slots"`
}

// MutationResult заполняется та запись, которую создала или изменила операция
type MutationResult struct {
	Slot        *Slot        `json:"slot,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
	Block       *Block       `json:"block,omitempty"`
	Day         DayView      `json:"day"`
}
