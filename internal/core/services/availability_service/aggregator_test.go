package availability_service

import (
	"testing"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
)

func TestAggregate(t *testing.T) {
	available := domain.ResolvedSlot{Status: domain.Available{}}
	booked := domain.ResolvedSlot{Status: domain.Booked{AppointmentID: "a"}}
	blocked := domain.ResolvedSlot{Status: domain.Blocked{BlockID: "b"}}

	tests := []struct {
		name string
		day  domain.DayResolution
		want domain.DayStatus
	}{
		{
			name: "no slots",
			day:  domain.DayResolution{},
			want: domain.DayStatusUnavailable,
		},
		{
			name: "full day block wins over available slots",
			day:  domain.DayResolution{HasFullDayBlock: true, CandidateCount: 1, Slots: []domain.ResolvedSlot{available}},
			want: domain.DayStatusUnavailable,
		},
		{
			name: "one available slot",
			day:  domain.DayResolution{CandidateCount: 3, Slots: []domain.ResolvedSlot{booked, blocked, available}},
			want: domain.DayStatusAvailable,
		},
		{
			name: "booked and blocked",
			day:  domain.DayResolution{CandidateCount: 2, Slots: []domain.ResolvedSlot{blocked, booked}},
			want: domain.DayStatusOccupied,
		},
		{
			name: "only booked",
			day:  domain.DayResolution{CandidateCount: 1, Slots: []domain.ResolvedSlot{booked}},
			want: domain.DayStatusOccupied,
		},
		{
			name: "only blocked",
			day:  domain.DayResolution{CandidateCount: 2, Slots: []domain.ResolvedSlot{blocked, blocked}},
			want: domain.DayStatusUnavailable,
		},
		{
			name: "orphan appointment only",
			day:  domain.DayResolution{CandidateCount: 0, Slots: []domain.ResolvedSlot{booked}},
			want: domain.DayStatusUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.day); got != tt.want {
				t.Fatalf("Aggregate() = %s, want %s", got, tt.want)
			}
		})
	}
}
