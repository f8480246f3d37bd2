package domain

import (
	"sync"
	"time"
)

// DebugInfo замер одного шага расчета дня, отдается в ответе при ?debug=true
type DebugInfo struct {
	Event   string            `json:"event"`
	Timing  int64             `json:"timingMs"`
	Options map[string]string `json:"options,omitempty"`
	started time.Time
}

func StartDebug(event string) DebugInfo {
	return DebugInfo{Event: event, started: time.Now()}
}

func (d *DebugInfo) Elapse() {
	d.Timing = time.Since(d.started).Milliseconds()
}

func (d *DebugInfo) AddOption(key string, value string) {
	if d.Options == nil {
		d.Options = make(map[string]string)
	}
	d.Options[key] = value
}

// DebugTrace собирает замеры. nil-трейс ничего не пишет, так что его можно передавать всегда.
type DebugTrace struct {
	mu    sync.Mutex
	items []DebugInfo
}

func NewDebugTrace() *DebugTrace {
	return &DebugTrace{items: make([]DebugInfo, 0)}
}

func (t *DebugTrace) Add(info DebugInfo) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.items = append(t.items, info)
	t.mu.Unlock()
}

func (t *DebugTrace) Items() []DebugInfo {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]DebugInfo(nil), t.items...)
}
