package availability_service

import (
	"sort"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
)

type ResolvedSlotSlice []domain.ResolvedSlot

// quickSort сортирует по времени начала, порядок равных сохраняется
func (s ResolvedSlotSlice) quickSort() ResolvedSlotSlice {
	if len(s) < 2 {
		return s
	}

	pivot := s[len(s)/2]

	less := ResolvedSlotSlice{}
	equal := ResolvedSlotSlice{}
	greater := ResolvedSlotSlice{}

	for _, slot := range s {
		switch slot.StartTime.Compare(pivot.StartTime) {
		case -1:
			less = append(less, slot)
		case 0:
			equal = append(equal, slot)
		default:
			greater = append(greater, slot)
		}
	}

	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

// sortBlockRanges по началу блокировки, чтобы причина бралась из самой ранней
func sortBlockRanges(ranges []blockRange) []blockRange {
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].start.Before(ranges[j].start)
	})
	return ranges
}
