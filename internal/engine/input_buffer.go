package engine

import "sync"

// InputCapacity is the number of pending actions kept before the oldest is dropped.
const InputCapacity = 64

// InputBuffer is a fixed-capacity ring of pending action strings.
// Pushing into a full buffer overwrites the oldest entry.
type InputBuffer struct {
	mu    sync.Mutex
	items [InputCapacity]string
	head  int // index of the oldest entry
	count int
}

// Push appends action, discarding the oldest entry when the ring is full.
// It never blocks.
func (b *InputBuffer) Push(action string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tail := (b.head + b.count) % InputCapacity
	b.items[tail] = action
	if b.count == InputCapacity {
		b.head = (b.head + 1) % InputCapacity
		return
	}
	b.count++
}

// Pop removes and returns the oldest entry.
func (b *InputBuffer) Pop() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return "", false
	}
	action := b.items[b.head]
	b.items[b.head] = ""
	b.head = (b.head + 1) % InputCapacity
	b.count--
	return action, true
}

// Len returns the number of pending entries.
func (b *InputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Clear discards every pending entry.
func (b *InputBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = [InputCapacity]string{}
	b.head = 0
	b.count = 0
}

// Items returns the pending entries, oldest first.
func (b *InputBuffer) Items() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, b.count)
	for i := range out {
		out[i] = b.items[(b.head+i)%InputCapacity]
	}
	return out
}
