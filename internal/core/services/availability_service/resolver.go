package availability_service

import (
	"fmt"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

const (
	recordKindSlot        = "slot"
	recordKindBlock       = "block"
	recordKindAppointment = "appointment"
)

// blockRange частичная блокировка в минутах от полуночи, end не включается
type blockRange struct {
	block domain.Block
	start json_types.TimeOfDay
	// endMinutes может быть 1440 (до конца дня), поэтому не TimeOfDay
	endMinutes int
	point      bool
}

func (r blockRange) covers(t json_types.TimeOfDay) bool {
	if r.point {
		return t.Equal(r.start)
	}
	return !t.Before(r.start) && t.Minutes() < r.endMinutes
}

type occupant struct {
	appointment domain.Appointment
}

// Resolve вычисляет статус каждого слота дня.
// Кандидаты берутся только из Slot; Appointment и Block лишь помечают существующие времена.
// Приоритет: booked > blocked > available.
// Чистая функция: одинаковый вход дает одинаковый выход.
func Resolve(providerID string, date json_types.Date, records domain.DayRecords) domain.DayResolution {
	resolution := domain.DayResolution{
		ProviderID: providerID,
		Date:       date,
		Slots:      make([]domain.ResolvedSlot, 0, len(records.Slots)),
	}

	warn := func(kind, id, reason string, args ...interface{}) {
		resolution.Warnings = append(resolution.Warnings, domain.ResolutionWarning{
			RecordKind: kind,
			RecordID:   id,
			Reason:     fmt.Sprintf(reason, args...),
		})
	}

	// Блокировки: полный день или диапазоны
	var fullDayBlock *domain.Block
	ranges := make([]blockRange, 0, len(records.Blocks))
	for i := range records.Blocks {
		block := records.Blocks[i]
		if block.IsFullDay {
			resolution.HasFullDayBlock = true
			if fullDayBlock == nil {
				fullDayBlock = &records.Blocks[i]
			}
			continue
		}

		r, err := parseBlockRange(block)
		if err != nil {
			warn(recordKindBlock, block.ID, "%v", err)
			continue
		}
		ranges = append(ranges, r)
	}
	ranges = sortBlockRanges(ranges)

	// Записи, которые держат слот
	occupants := make(map[json_types.TimeOfDay]occupant)
	occupantOrder := make([]json_types.TimeOfDay, 0)
	for _, appointment := range records.Appointments {
		if !appointment.Status.IsValid() {
			warn(recordKindAppointment, appointment.ID, "unknown status %q", appointment.Status)
			continue
		}
		start, err := json_types.ParseTimeOfDay(appointment.StartTime)
		if err != nil {
			warn(recordKindAppointment, appointment.ID, "%v", err)
			continue
		}
		if !appointment.Status.Occupies() {
			continue
		}
		if existing, ok := occupants[start]; ok {
			warn(recordKindAppointment, appointment.ID, "slot %s is already occupied by appointment %s", start, existing.appointment.ID)
			continue
		}
		occupants[start] = occupant{appointment: appointment}
		occupantOrder = append(occupantOrder, start)
	}

	// Кандидаты из слотов
	seen := make(map[json_types.TimeOfDay]string)
	for _, slot := range records.Slots {
		start, err := json_types.ParseTimeOfDay(slot.StartTime)
		if err != nil {
			warn(recordKindSlot, slot.ID, "%v", err)
			continue
		}
		if !start.FitsInDay(slot.DurationMinutes) {
			warn(recordKindSlot, slot.ID, "invalid duration %d minutes at %s", slot.DurationMinutes, start)
			continue
		}
		if existingID, ok := seen[start]; ok {
			warn(recordKindSlot, slot.ID, "duplicate slot at %s, slot %s is used", start, existingID)
			continue
		}
		seen[start] = slot.ID

		resolution.Slots = append(resolution.Slots, domain.ResolvedSlot{
			StartTime:       start,
			DurationMinutes: slot.DurationMinutes,
			SlotID:          slot.ID,
			Status:          slotStatus(start, occupants, fullDayBlock, ranges),
		})
	}
	resolution.CandidateCount = len(resolution.Slots)

	// Запись без слота (слот удалили) все равно показывается занятой
	for _, start := range occupantOrder {
		if _, ok := seen[start]; ok {
			continue
		}
		resolution.Slots = append(resolution.Slots, domain.ResolvedSlot{
			StartTime: start,
			Status:    bookedStatus(occupants[start].appointment),
		})
	}

	resolution.Slots = ResolvedSlotSlice(resolution.Slots).quickSort()

	return resolution
}

func slotStatus(start json_types.TimeOfDay, occupants map[json_types.TimeOfDay]occupant, fullDayBlock *domain.Block, ranges []blockRange) domain.SlotStatus {
	if o, ok := occupants[start]; ok {
		return bookedStatus(o.appointment)
	}
	if fullDayBlock != nil {
		return domain.Blocked{BlockID: fullDayBlock.ID, Reason: fullDayBlock.Reason}
	}
	for _, r := range ranges {
		if r.covers(start) {
			return domain.Blocked{BlockID: r.block.ID, Reason: r.block.Reason}
		}
	}
	return domain.Available{}
}

func bookedStatus(appointment domain.Appointment) domain.Booked {
	return domain.Booked{
		AppointmentID: appointment.ID,
		ClientLabel:   appointment.ClientLabel(),
	}
}

// parseBlockRange только startTime: до конца дня, только endTime: с полуночи,
// startTime == endTime: ровно одно время
func parseBlockRange(block domain.Block) (blockRange, error) {
	if block.StartTime == nil && block.EndTime == nil {
		return blockRange{}, fmt.Errorf("partial block without start and end time")
	}

	r := blockRange{block: block, endMinutes: 24 * 60}

	if block.StartTime != nil {
		start, err := json_types.ParseTimeOfDay(*block.StartTime)
		if err != nil {
			return blockRange{}, err
		}
		r.start = start
	}

	if block.EndTime != nil {
		end, err := json_types.ParseTimeOfDay(*block.EndTime)
		if err != nil {
			return blockRange{}, err
		}
		if end.Before(r.start) {
			return blockRange{}, fmt.Errorf("block end %s is before start %s", end, r.start)
		}
		r.endMinutes = end.Minutes()
		r.point = block.StartTime != nil && end.Equal(r.start)
	}

	return r, nil
}
