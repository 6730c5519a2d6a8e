package detection

import "sync"

const DefaultSinkSize = 50

// Sink keeps the most recent events, newest first, and notifies observers on every Record.
// Record calls are serialized; an observer must not call Record itself.
type Sink struct {
	recordMu sync.Mutex

	mu        sync.RWMutex
	capacity  int
	events    []Event
	observers []observer
	nextID    uint64
}

type observer struct {
	id uint64
	fn func([]Event)
}

func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultSinkSize
	}
	return &Sink{capacity: capacity}
}

// Record prepends the batch, keeping its order, and truncates to capacity.
func (s *Sink) Record(events ...Event) {
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	batch := append([]Event(nil), events...)

	s.mu.Lock()
	merged := make([]Event, 0, min(len(batch)+len(s.events), s.capacity))
	merged = append(merged, batch...)
	merged = append(merged, s.events...)
	if len(merged) > s.capacity {
		merged = merged[:s.capacity]
	}
	s.events = merged

	observers := append([]observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(batch)
	}
}

// Observe registers fn and returns a func that unregisters it.
func (s *Sink) Observe(fn func([]Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Events returns a newest-first snapshot.
func (s *Sink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}

func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *Sink) Capacity() int {
	return s.capacity
}
