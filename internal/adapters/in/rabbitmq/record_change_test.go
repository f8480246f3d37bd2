package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
	"github.com/suchimauz/barber-availability-engine/internal/core/ports/out"
)

type fakeAvailability struct {
	days      []string
	providers []string
	all       int
	err       error
}

func (f *fakeAvailability) ResolveDay(ctx context.Context, providerID string, date json_types.Date, trace *domain.DebugTrace) (domain.DayResolution, error) {
	return domain.DayResolution{}, nil
}

func (f *fakeAvailability) AggregateDayStatus(ctx context.Context, providerID string, date json_types.Date) (domain.DayStatus, error) {
	return domain.DayStatusAvailable, nil
}

func (f *fakeAvailability) ProjectCalendar(ctx context.Context, providerID string, from, to json_types.Date) (map[json_types.Date]domain.DayStatus, error) {
	return nil, nil
}

func (f *fakeAvailability) InvalidateDay(ctx context.Context, providerID string, date json_types.Date) error {
	f.days = append(f.days, providerID+"|"+date.String())
	return f.err
}

func (f *fakeAvailability) InvalidateProvider(ctx context.Context, providerID string) error {
	f.providers = append(f.providers, providerID)
	return f.err
}

func (f *fakeAvailability) InvalidateAll(ctx context.Context) error {
	f.all++
	return f.err
}

func newTestListener(useCase *fakeAvailability) *RecordChangeListener {
	return &RecordChangeListener{useCase: useCase, logger: out.NopLogger{}}
}

func TestParseRoutingKey(t *testing.T) {
	key, err := parseRoutingKey("recordstore.availability-svc.appointment.7.invalidate")
	if err != nil {
		t.Fatalf("parseRoutingKey: %v", err)
	}
	want := RecordChangeRoutingKey{
		Source:     "recordstore",
		Receiver:   "availability-svc",
		Resource:   RecordChangeResourceAppointment,
		ProviderID: "7",
		Action:     RecordChangeActionInvalidate,
	}
	if key != want {
		t.Fatalf("got %+v, want %+v", key, want)
	}

	for _, bad := range []string{"", "recordstore.availability-svc.slot", "a.b.schedule.7.invalidate", "a.b.slot.7.invalidate.extra"} {
		if _, err := parseRoutingKey(bad); !errors.Is(err, ErrMalformedMessage) {
			t.Errorf("%q: expected ErrMalformedMessage, got %v", bad, err)
		}
	}
}

func TestHandleDispatch(t *testing.T) {
	ctx := context.Background()
	fake := &fakeAvailability{}
	l := newTestListener(fake)

	if err := l.handle(ctx, "recordstore.availability-svc.slot.7.invalidate", []byte(`{"providerId":"7","date":"2025-06-01"}`)); err != nil {
		t.Fatalf("handle day: %v", err)
	}
	if err := l.handle(ctx, "recordstore.availability-svc.block.8.invalidate", nil); err != nil {
		t.Fatalf("handle provider: %v", err)
	}
	if err := l.handle(ctx, "recordstore.availability-svc._all_._all_.invalidate", nil); err != nil {
		t.Fatalf("handle all: %v", err)
	}
	if err := l.handle(ctx, "recordstore.availability-svc.slot.7.store", nil); err != nil {
		t.Fatalf("handle skipped action: %v", err)
	}

	if len(fake.days) != 1 || fake.days[0] != "7|2025-06-01" {
		t.Fatalf("unexpected day invalidations %v", fake.days)
	}
	if len(fake.providers) != 1 || fake.providers[0] != "8" {
		t.Fatalf("unexpected provider invalidations %v", fake.providers)
	}
	if fake.all != 1 {
		t.Fatalf("expected one full invalidation, got %d", fake.all)
	}
}

func TestHandleErrors(t *testing.T) {
	ctx := context.Background()
	l := newTestListener(&fakeAvailability{})

	malformed := []struct {
		key  string
		body string
	}{
		{"bad.key", ""},
		{"recordstore.availability-svc.slot.7.invalidate", "{"},
		{"recordstore.availability-svc.slot.7.invalidate", `{"date":"June 1"}`},
		{"recordstore.availability-svc.slot..invalidate", ""},
	}
	for _, m := range malformed {
		if err := l.handle(ctx, m.key, []byte(m.body)); !errors.Is(err, ErrMalformedMessage) {
			t.Errorf("%s %s: expected ErrMalformedMessage, got %v", m.key, m.body, err)
		}
	}

	failing := newTestListener(&fakeAvailability{err: errors.New("cache is gone")})
	err := failing.handle(ctx, "recordstore.availability-svc.appointment.7.invalidate", []byte(`{"date":"2025-06-01"}`))
	if err == nil || errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected handler failure to be retryable, got %v", err)
	}
}
