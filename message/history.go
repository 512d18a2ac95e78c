package message

// DefaultHistoryCap bounds how many turns a conversation keeps so prompts fed
// back to the model stay a fixed size.
const DefaultHistoryCap = 10

// History is the ordered, capped record of one conversation. Insertion order is
// chronological order; once the cap is exceeded the oldest turns are evicted.
// A History is owned by a single workflow run and is not safe for concurrent
// use; callers resume a conversation by seeding the next run from Turns().
type History struct {
	cap   int
	turns []*Message
}

// NewHistory creates an empty history with the given cap. A non-positive cap
// falls back to DefaultHistoryCap.
func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &History{cap: cap}
}

// SeedHistory builds a history pre-populated with turns from an earlier run,
// applying eviction immediately if the seed exceeds the cap.
func SeedHistory(cap int, turns []*Message) *History {
	h := NewHistory(cap)
	for _, turn := range turns {
		h.Append(turn)
	}
	return h
}

// Append records a turn, evicting the oldest turns beyond the cap.
func (h *History) Append(msg *Message) {
	if msg == nil {
		return
	}
	h.turns = append(h.turns, msg)
	if len(h.turns) > h.cap {
		h.turns = h.turns[len(h.turns)-h.cap:]
	}
}

// Len returns the number of retained turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of the retained turns in chronological order.
func (h *History) Turns() []*Message {
	return CloneMessages(h.turns)
}

// Recent returns a copy of up to n of the most recent turns.
func (h *History) Recent(n int) []*Message {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	return CloneMessages(h.turns[len(h.turns)-n:])
}
