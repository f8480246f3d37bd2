package availability_service

import "github.com/suchimauz/barber-availability-engine/internal/core/domain"

// Aggregate сводит день к одному статусу для календаря. Первое совпадение выигрывает:
//  1. блокировка на весь день -> unavailable
//  2. нет ни одного слота -> unavailable
//  3. есть свободный слот -> available
//  4. свободных нет, есть занятые (с блокировками или без) -> occupied
//  5. только заблокированные -> unavailable
//
// Статус error выставляет сервис, когда день не удалось получить из хранилища.
func Aggregate(day domain.DayResolution) domain.DayStatus {
	if day.HasFullDayBlock {
		return domain.DayStatusUnavailable
	}
	if day.CandidateCount == 0 {
		return domain.DayStatusUnavailable
	}

	booked := false
	for _, slot := range day.Slots {
		switch slot.Kind() {
		case domain.SlotStatusAvailable:
			return domain.DayStatusAvailable
		case domain.SlotStatusBooked:
			booked = true
		}
	}

	// Занятые важнее заблокированных
	if booked {
		return domain.DayStatusOccupied
	}
	return domain.DayStatusUnavailable
}
