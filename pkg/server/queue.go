package server

import "sync"

// queuedLine is one pending input line. Lines from a complex alias
// expansion are marked aliased so they are never expanded again.
type queuedLine struct {
	text    string
	aliased bool
}

// InputQueue holds the lines a connection has typed but the game has not
// run yet. Reader goroutines append; the game thread pops and, for complex
// aliases, pushes expansions back onto the front.
type InputQueue struct {
	mu    sync.Mutex
	lines []queuedLine
}

// PushBack appends a typed line.
func (q *InputQueue) PushBack(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, queuedLine{text: line})
	q.mu.Unlock()
}

// PushFront inserts alias expansion lines ahead of everything queued,
// keeping their order. They come back from Pop marked aliased.
func (q *InputQueue) PushFront(lines ...string) {
	if len(lines) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	merged := make([]queuedLine, 0, len(lines)+len(q.lines))
	for _, l := range lines {
		merged = append(merged, queuedLine{text: l, aliased: true})
	}
	q.lines = append(merged, q.lines...)
}

// Pop removes and returns the oldest line and whether it came from an
// alias expansion.
func (q *InputQueue) Pop() (line string, aliased bool, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.lines) == 0 {
		return "", false, false
	}
	next := q.lines[0]
	q.lines[0] = queuedLine{}
	q.lines = q.lines[1:]
	return next.text, next.aliased, true
}

// Len returns the number of queued lines.
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// Flush discards everything queued.
func (q *InputQueue) Flush() {
	q.mu.Lock()
	q.lines = nil
	q.mu.Unlock()
}
