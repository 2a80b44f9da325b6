package jobs

import "sync"

// Broadcaster holds the current Snapshot and publishes every change to its
// subscribers.
//
// Each subscriber channel has room for one snapshot. When a subscriber falls
// behind, the stale snapshot waiting in its channel is replaced by the new
// one, so readers skip intermediate states but never see a partial mapping
// and publishers never block.
type Broadcaster struct {
	mu      sync.Mutex
	current Snapshot
	subs    map[uint64]chan Snapshot
	nextID  uint64
	closed  bool
}

// NewBroadcaster returns a broadcaster whose initial snapshot is all idle.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan Snapshot)}
}

// Current returns the latest snapshot.
func (b *Broadcaster) Current() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Subscribe returns a channel that first carries the current snapshot and
// then every later one (conflated), plus a function that ends the
// subscription and closes the channel. The channel is also closed by Close.
func (b *Broadcaster) Subscribe() (<-chan Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- b.current

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Set changes one kind's flag and publishes when the value actually changes.
func (b *Broadcaster) Set(k Kind, running bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current.running[k] == running {
		return
	}
	b.publishLocked(b.current.with(k, running))
}

// SetAll changes every kind except the listed ones in one snapshot.
func (b *Broadcaster) SetAll(running bool, except ...Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.current
	for _, k := range Kinds() {
		next.running[k] = running
	}
	for _, k := range except {
		next.running[k] = b.current.running[k]
	}
	if next.running == b.current.running {
		return
	}
	b.publishLocked(next)
}

// Close ends every subscription. Later Set calls still update Current.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broadcaster) publishLocked(next Snapshot) {
	next.Version = b.current.Version + 1
	b.current = next
	for _, ch := range b.subs {
		select {
		case ch <- next:
			continue
		default:
		}
		// Replace the unread snapshot with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next:
		default:
		}
	}
}
