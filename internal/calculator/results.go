package calculator

import "sync"

// updateBuffer is the per-subscriber queue length. A subscriber that falls
// further behind loses its oldest updates; Latest always has the newest.
const updateBuffer = 64

// board keeps the last value of every slot and fans updates out to
// subscribers. Posting never blocks.
type board struct {
	mu     sync.Mutex
	latest [slotCount]string
	filled [slotCount]bool
	subs   map[uint64]chan Update
	nextID uint64
	closed bool
}

func newBoard() *board {
	return &board{subs: make(map[uint64]chan Update)}
}

func (b *board) post(updates ...Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range updates {
		b.latest[u.Slot] = u.Value
		b.filled[u.Slot] = true
		for _, ch := range b.subs {
			select {
			case ch <- u:
				continue
			default:
			}
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}

func (b *board) get(s Slot) (string, bool) {
	if s < 0 || s >= slotCount {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest[s], b.filled[s]
}

func (b *board) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = [slotCount]string{}
	b.filled = [slotCount]bool{}
}

func (b *board) subscribe() (<-chan Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Update, updateBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
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

func (b *board) close() {
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
