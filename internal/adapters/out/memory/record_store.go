package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

// RecordStore хранилище в памяти с той же семантикой, что и удаленное:
// побеждает первый записавший, второй получает ErrSlotConflict или ErrSlotNotAvailable.
type RecordStore struct {
	mu           sync.RWMutex
	slots        map[string]domain.Slot
	blocks       map[string]domain.Block
	appointments map[string]domain.Appointment
	// порядок вставки, чтобы GetDayRecords был детерминированным
	order  []string
	logger out.LoggerPort

	// FailNext для тестов: следующий вызов вернет эту ошибку
	FailNext error
	calls    map[string]int
}

func NewRecordStore(logger out.LoggerPort) *RecordStore {
	return &RecordStore{
		slots:        make(map[string]domain.Slot),
		blocks:       make(map[string]domain.Block),
		appointments: make(map[string]domain.Appointment),
		logger:       logger.WithModule("MemoryRecordStore"),
		calls:        make(map[string]int),
	}
}

// Calls сколько раз вызывалась операция
func (s *RecordStore) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

func (s *RecordStore) begin(op string) error {
	s.calls[op]++
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return &domain.TransportError{Op: "memory." + op, Err: err}
	}
	return nil
}

func (s *RecordStore) GetDayRecords(ctx context.Context, providerID string, date json_types.Date) (domain.DayRecords, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("get_day"); err != nil {
		return domain.DayRecords{}, err
	}

	records := domain.DayRecords{
		Slots:        []domain.Slot{},
		Blocks:       []domain.Block{},
		Appointments: []domain.Appointment{},
	}
	day := date.String()

	for _, id := range s.order {
		if slot, ok := s.slots[id]; ok && slot.ProviderID == providerID && slot.Date == day {
			records.Slots = append(records.Slots, slot)
		}
		if block, ok := s.blocks[id]; ok && block.ProviderID == providerID && block.Date == day {
			records.Blocks = append(records.Blocks, block)
		}
		if appointment, ok := s.appointments[id]; ok && appointment.ProviderID == providerID && appointment.Date == day {
			records.Appointments = append(records.Appointments, appointment)
		}
	}

	return records, nil
}

func (s *RecordStore) GetSlot(ctx context.Context, slotID string) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("get_slot"); err != nil {
		return nil, err
	}
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("slot %s: %w", slotID, domain.ErrNotFound)
	}
	return &slot, nil
}

func (s *RecordStore) GetAppointment(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("get_appointment"); err != nil {
		return nil, err
	}
	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
	}
	return &appointment, nil
}

func (s *RecordStore) GetBlock(ctx context.Context, blockID string) (*domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("get_block"); err != nil {
		return nil, err
	}
	block, ok := s.blocks[blockID]
	if !ok {
		return nil, fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	}
	return &block, nil
}

func (s *RecordStore) CreateSlot(ctx context.Context, slot domain.Slot) (*domain.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("create_slot"); err != nil {
		return nil, err
	}

	for _, existing := range s.slots {
		if existing.ProviderID == slot.ProviderID && existing.Date == slot.Date && sameTime(existing.StartTime, slot.StartTime) {
			return nil, fmt.Errorf("slot %s at %s: %w", existing.ID, existing.StartTime, domain.ErrSlotConflict)
		}
	}

	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	s.slots[slot.ID] = slot
	s.order = append(s.order, slot.ID)

	s.logger.Debug("memory.slot.created", out.LogFields{
		"slotId":     slot.ID,
		"providerId": slot.ProviderID,
		"date":       slot.Date,
		"startTime":  slot.StartTime,
	})

	return &slot, nil
}

func (s *RecordStore) DeleteSlot(ctx context.Context, slotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("delete_slot"); err != nil {
		return err
	}
	if _, ok := s.slots[slotID]; !ok {
		return fmt.Errorf("slot %s: %w", slotID, domain.ErrNotFound)
	}
	delete(s.slots, slotID)
	s.forget(slotID)
	return nil
}

func (s *RecordStore) CreateAppointment(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("create_appointment"); err != nil {
		return nil, err
	}

	for _, existing := range s.appointments {
		if existing.ProviderID == appointment.ProviderID && existing.Date == appointment.Date &&
			sameTime(existing.StartTime, appointment.StartTime) && existing.Status.Occupies() {
			return nil, fmt.Errorf("appointment %s at %s: %w", existing.ID, existing.StartTime, domain.ErrSlotNotAvailable)
		}
	}

	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	s.appointments[appointment.ID] = appointment
	s.order = append(s.order, appointment.ID)

	return &appointment, nil
}

func (s *RecordStore) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("update_appointment_status"); err != nil {
		return nil, err
	}
	appointment, ok := s.appointments[appointmentID]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
	}
	if !appointment.Status.CanTransitionTo(status) {
		if appointment.Status.IsTerminal() {
			return nil, fmt.Errorf("appointment %s is %s: %w", appointmentID, appointment.Status, domain.ErrAlreadyTerminal)
		}
		return nil, fmt.Errorf("appointment %s %s -> %s: %w", appointmentID, appointment.Status, status, domain.ErrInvalidTransition)
	}

	appointment.Status = status
	s.appointments[appointmentID] = appointment
	return &appointment, nil
}

func (s *RecordStore) CreateBlock(ctx context.Context, block domain.Block) (*domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("create_block"); err != nil {
		return nil, err
	}
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	s.blocks[block.ID] = block
	s.order = append(s.order, block.ID)
	return &block, nil
}

func (s *RecordStore) DeleteBlock(ctx context.Context, blockID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin("delete_block"); err != nil {
		return err
	}
	if _, ok := s.blocks[blockID]; !ok {
		return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
	}
	delete(s.blocks, blockID)
	s.forget(blockID)
	return nil
}

// Seed кладет записи как есть, без проверок. Для тестов и локального запуска.
func (s *RecordStore) Seed(records domain.DayRecords) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range records.Slots {
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		s.slots[slot.ID] = slot
		s.order = append(s.order, slot.ID)
	}
	for _, block := range records.Blocks {
		if block.ID == "" {
			block.ID = uuid.NewString()
		}
		s.blocks[block.ID] = block
		s.order = append(s.order, block.ID)
	}
	for _, appointment := range records.Appointments {
		if appointment.ID == "" {
			appointment.ID = uuid.NewString()
		}
		s.appointments[appointment.ID] = appointment
		s.order = append(s.order, appointment.ID)
	}
}

// forget убирает id из порядка вставки
func (s *RecordStore) forget(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Len сколько id хранится в порядке вставки
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// sameTime сравнивает время по значению ("09:00" == "09:00:00"), некорректное сравнивается как строка
func sameTime(a, b string) bool {
	ta, errA := json_types.ParseTimeOfDay(a)
	tb, errB := json_types.ParseTimeOfDay(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ta.Equal(tb)
}
