package realtime

// history is a fixed-capacity ring over inbound messages. Appending to a
// full ring evicts the oldest entry. Not safe for concurrent use; the
// client guards it with its own mutex.
type history struct {
	buf   []Message
	head  int // index of the oldest entry
	count int
}

func newHistory(capacity int) *history {
	if capacity < 1 {
		capacity = 1
	}
	return &history{buf: make([]Message, capacity)}
}

// append records m, evicting the oldest entry when the ring is full.
func (h *history) append(m Message) {
	if h.count == len(h.buf) {
		h.buf[h.head] = m
		h.head = (h.head + 1) % len(h.buf)
		return
	}
	h.buf[(h.head+h.count)%len(h.buf)] = m
	h.count++
}

func (h *history) len() int { return h.count }

// snapshot returns the retained messages, oldest first.
func (h *history) snapshot() []Message {
	out := make([]Message, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}
