package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

func TestRecordStoreFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(out.NopLogger{})

	first, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}

	_, err = store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00:00", DurationMinutes: 45})
	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// Другой барбер в то же время не конфликтует
	if _, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "8", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30}); err != nil {
		t.Fatalf("expected other provider slot to be created: %v", err)
	}

	client := "c1"
	appointment, err := store.CreateAppointment(ctx, domain.Appointment{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", ClientID: &client, Status: domain.AppointmentStatusPending})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	_, err = store.CreateAppointment(ctx, domain.Appointment{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", WalkInName: "Ivan", Status: domain.AppointmentStatusConfirmed})
	if !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}

	if _, err := store.UpdateAppointmentStatus(ctx, appointment.ID, domain.AppointmentStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := store.CreateAppointment(ctx, domain.Appointment{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", WalkInName: "Ivan", Status: domain.AppointmentStatusConfirmed}); err != nil {
		t.Fatalf("expected cancelled appointment to free the slot: %v", err)
	}
	if _, err := store.UpdateAppointmentStatus(ctx, appointment.ID, domain.AppointmentStatusConfirmed); !errors.Is(err, domain.ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
}

func TestRecordStoreGetDayRecords(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(out.NopLogger{})
	start := "12:00"

	store.Seed(domain.DayRecords{
		Slots: []domain.Slot{
			{ID: "s1", ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30},
			{ID: "s2", ProviderID: "7", Date: "2025-06-02", StartTime: "09:00", DurationMinutes: 30},
		},
		Blocks: []domain.Block{
			{ID: "b1", ProviderID: "7", Date: "2025-06-01", StartTime: &start, Reason: "lunch"},
		},
	})

	records, err := store.GetDayRecords(ctx, "7", json_types.MustDate("2025-06-01"))
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if len(records.Slots) != 1 || records.Slots[0].ID != "s1" || len(records.Blocks) != 1 || len(records.Appointments) != 0 {
		t.Fatalf("unexpected records: %+v", records)
	}

	if err := store.DeleteBlock(ctx, "b1"); err != nil {
		t.Fatalf("delete block: %v", err)
	}
	if err := store.DeleteBlock(ctx, "b1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	store.FailNext = errors.New("connection reset")
	if _, err := store.GetDayRecords(ctx, "7", json_types.MustDate("2025-06-01")); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if store.Calls("get_day") != 2 {
		t.Fatalf("expected 2 get_day calls, got %d", store.Calls("get_day"))
	}
}

func TestRecordStoreDeletePrunesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(out.NopLogger{})
	start := "12:00"

	slot, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	block, err := store.CreateBlock(ctx, domain.Block{ProviderID: "7", Date: "2025-06-01", StartTime: &start})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}

	if err := store.DeleteSlot(ctx, slot.ID); err != nil {
		t.Fatalf("delete slot: %v", err)
	}
	if err := store.DeleteBlock(ctx, block.ID); err != nil {
		t.Fatalf("delete block: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected deleted ids to leave the insertion order, got %d", store.Len())
	}

	// Повторное создание после удаления работает как раньше
	if _, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30}); err != nil {
		t.Fatalf("recreate slot: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}
}

func TestRecordStoreSignedTimeIsNotSameTime(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(out.NopLogger{})

	if _, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "09:00", DurationMinutes: 30}); err != nil {
		t.Fatalf("create slot: %v", err)
	}
	// "+9:00" некорректно и сравнивается как строка, конфликта с 09:00 нет
	if _, err := store.CreateSlot(ctx, domain.Slot{ProviderID: "7", Date: "2025-06-01", StartTime: "+9:00", DurationMinutes: 30}); err != nil {
		t.Fatalf("expected signed start time not to collide with 09:00: %v", err)
	}
	if sameTime("+9:00", "09:00") {
		t.Fatalf("expected signed time to differ from 09:00")
	}
	if !sameTime("09:00:00", "09:00") {
		t.Fatalf("expected seconds form to equal 09:00")
	}
}
