package services

import "sync"

// broadcaster fans outcomes out to subscribers. Every subscriber gets its
// own unbounded queue drained by a pump goroutine, so a slow reader never
// stalls the controller and never loses an outcome.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[*subscription]struct{})}
}

type subscription struct {
	mu       sync.Mutex
	queue    []Outcome
	draining bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	out      chan Outcome
}

// subscribe returns the outcome stream and a function that ends it. The
// stream is closed after unsubscribe, or once the broadcaster is closed and
// everything queued has been delivered.
func (b *broadcaster) subscribe() (<-chan Outcome, func()) {
	s := &subscription{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		out:  make(chan Outcome),
	}

	b.mu.Lock()
	if b.closed {
		s.draining = true
	} else {
		b.subs[s] = struct{}{}
	}
	b.mu.Unlock()

	go s.pump()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		s.stopOnce.Do(func() { close(s.stop) })
	}
	return s.out, cancel
}

func (b *broadcaster) publish(o Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		s.push(o)
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.drain()
	}
	b.subs = nil
}

func (s *subscription) push(o Outcome) {
	s.mu.Lock()
	s.queue = append(s.queue, o)
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) drain() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			draining := s.draining
			s.mu.Unlock()
			if draining {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.stop:
				return
			}
		}
		o := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- o:
		case <-s.stop:
			return
		}
	}
}
