package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	allowed := map[[2]AppointmentStatus]bool{
		{AppointmentStatusPending, AppointmentStatusConfirmed}:   true,
		{AppointmentStatusPending, AppointmentStatusCancelled}:   true,
		{AppointmentStatusConfirmed, AppointmentStatusCompleted}: true,
		{AppointmentStatusConfirmed, AppointmentStatusCancelled}: true,
	}
	all := []AppointmentStatus{
		AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != allowed[[2]AppointmentStatus{from, to}] {
				t.Fatalf("%s -> %s: got %v", from, to, got)
			}
		}
	}

	if !AppointmentStatusCompleted.IsTerminal() || !AppointmentStatusCancelled.IsTerminal() {
		t.Fatalf("expected completed and cancelled to be terminal")
	}
	if AppointmentStatusCompleted.Occupies() || AppointmentStatusCancelled.Occupies() {
		t.Fatalf("terminal statuses must not occupy a slot")
	}
	if AppointmentStatus("noshow").IsValid() {
		t.Fatalf("unexpected valid status")
	}
}

func TestClientLabel(t *testing.T) {
	client := "client-1"
	if got := (Appointment{ClientID: &client}).ClientLabel(); got != client {
		t.Fatalf("expected client id label, got %q", got)
	}
	if got := (Appointment{ClientID: &client, WalkInName: "Ivan"}).ClientLabel(); got != "Ivan" {
		t.Fatalf("expected walk-in name label, got %q", got)
	}
}

func TestResolvedSlotJSON(t *testing.T) {
	slots := []ResolvedSlot{
		{StartTime: json_types.MustTimeOfDay("09:00"), DurationMinutes: 30, SlotID: "s1", Status: Booked{AppointmentID: "a1", ClientLabel: "Ivan"}},
		{StartTime: json_types.MustTimeOfDay("09:30"), DurationMinutes: 30, SlotID: "s2", Status: Blocked{BlockID: "b1", Reason: "lunch"}},
		{StartTime: json_types.MustTimeOfDay("10:00"), DurationMinutes: 30, SlotID: "s3", Status: Available{}},
	}

	data, err := json.Marshal(slots)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `[{"startTime":"09:00","durationMinutes":30,"slotId":"s1","status":"booked","appointmentId":"a1","clientLabel":"Ivan"},` +
		`{"startTime":"09:30","durationMinutes":30,"slotId":"s2","status":"blocked","blockId":"b1","reason":"lunch"},` +
		`{"startTime":"10:00","durationMinutes":30,"slotId":"s3","status":"available"}]`
	if string(data) != want {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", data, want)
	}

	var back []ResolvedSlot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0].Status != (Booked{AppointmentID: "a1", ClientLabel: "Ivan"}) || back[1].Kind() != SlotStatusBlocked {
		t.Fatalf("unexpected decoded statuses: %+v", back)
	}
}

func TestErrorCodes(t *testing.T) {
	transport := &TransportError{Op: "recordstore.get_day", Err: errors.New("connection refused")}
	if !errors.Is(transport, ErrTransport) {
		t.Fatalf("expected transport error to match ErrTransport")
	}
	if ErrorCode(fmt.Errorf("wrapped: %w", transport)) != "TRANSPORT_ERROR" {
		t.Fatalf("unexpected code for transport error")
	}
	if ErrorCode(fmt.Errorf("booking.add_slot.conflict: %w", ErrSlotConflict)) != "SLOT_CONFLICT" {
		t.Fatalf("unexpected code for slot conflict")
	}
	if ErrorCode(errors.New("boom")) != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code for unknown error")
	}
}
