package wave

import (
	"slices"
	"sync"

	"github.com/AlexZinkM/wave-portal/internal/model"
)

// Feed is the append-only list of waves in ledger order.
//
// Historical records are kept exactly as read. An event record is dropped when
// its log was delivered before, or when a historical record has the same key.
type Feed struct {
	mu       sync.Mutex
	history  []model.WaveRecord
	events   []model.WaveRecord
	logs     map[string]struct{}
	watchers map[int]chan model.WaveRecord
	nextID   int
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{
		logs:     map[string]struct{}{},
		watchers: map[int]chan model.WaveRecord{},
	}
}

// MergeHistory installs a historical batch as the head of the feed. Event
// records the batch already contains are removed from the tail, one per
// matching historical record.
func (f *Feed) MergeHistory(records []model.WaveRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.history = slices.Clone(records)
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Key()]++
	}
	f.events = slices.DeleteFunc(f.events, func(r model.WaveRecord) bool {
		if counts[r.Key()] == 0 {
			return false
		}
		counts[r.Key()]--
		return true
	})
}

// Append adds an event record and reports whether it was new
func (f *Feed) Append(record model.WaveRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id := record.LogID(); id != "" {
		if _, seen := f.logs[id]; seen {
			return false
		}
		f.logs[id] = struct{}{}
	}
	key := record.Key()
	for _, r := range f.history {
		if r.Key() == key {
			return false
		}
	}

	f.events = append(f.events, record)
	for _, ch := range f.watchers {
		select {
		case ch <- record:
		default:
			// slow watcher, it still sees the record on its next full read
		}
	}
	return true
}

// Records returns the feed in ledger order
func (f *Feed) Records() []model.WaveRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.WaveRecord, 0, len(f.history)+len(f.events))
	out = append(out, f.history...)
	return append(out, f.events...)
}

// Len returns the number of records in the feed
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history) + len(f.events)
}

// Watch returns a channel receiving every appended record until cancel is called
func (f *Feed) Watch(buffer int) (<-chan model.WaveRecord, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan model.WaveRecord, buffer)
	f.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.watchers, id)
			close(ch)
		})
	}
}
