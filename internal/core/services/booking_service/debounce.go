package booking_service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/suchimauz/barber-availability-engine/internal/core/domain"
	"github.com/suchimauz/barber-availability-engine/internal/core/json_types"
)

// debouncer схлопывает одинаковые AddSlot/Book.
// Одновременные дубли ждут один вызов хранилища (singleflight),
// повтор в пределах окна получает прошлый результат без записи.
type debouncer struct {
	group  singleflight.Group
	recent *expirable.LRU[string, *domain.MutationResult]
}

func newDebouncer(size int, window time.Duration) *debouncer {
	d := &debouncer{}
	// ttl <= 0 в expirable значит "без срока", поэтому окно 0 выключает повторы целиком
	if window > 0 {
		if size <= 0 {
			size = 1000
		}
		d.recent = expirable.NewLRU[string, *domain.MutationResult](size, nil, window)
	}
	return d
}

func dayPrefix(providerID string, date json_types.Date) string {
	return providerID + "|" + date.String() + "|"
}

// do выполняет fn один раз на ключ. replayed=true, если результат взят из окна
// или получен от чужого одновременного вызова.
// fn получает ctx без отмены: его результат ждут все участники, а не только первый.
func (d *debouncer) do(ctx context.Context, key string, providerID string, date json_types.Date, fn func(ctx context.Context) (*domain.MutationResult, error)) (result *domain.MutationResult, replayed bool, err error) {
	key = dayPrefix(providerID, date) + key

	if cached, ok := d.get(key); ok {
		return cached, true, nil
	}

	executed := false
	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		executed = true
		// Повторная проверка: предыдущий вызов мог завершиться между get и Do
		if cached, ok := d.get(key); ok {
			replayed = true
			return cached, nil
		}
		result, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if d.recent != nil {
			d.recent.Add(key, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*domain.MutationResult), replayed || !executed, nil
}

func (d *debouncer) get(key string) (*domain.MutationResult, bool) {
	if d.recent == nil {
		return nil, false
	}
	return d.recent.Get(key)
}

// forgetDay любая мутация дня делает сохраненные результаты этого дня неактуальными
func (d *debouncer) forgetDay(providerID string, date json_types.Date) {
	if d.recent == nil {
		return
	}
	prefix := dayPrefix(providerID, date)
	for _, key := range d.recent.Keys() {
		if strings.HasPrefix(key, prefix) {
			d.recent.Remove(key)
		}
	}
}
