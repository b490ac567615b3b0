package recmock

import "strings"

const defaultHistorySize = 32

// history keeps the most recent invocations of a mock, oldest first.
type history struct {
	size  int
	calls []Invocation
	next  int
	full  bool
}

func newHistory(size int) *history {
	if size < 0 {
		size = 0
	}
	return &history{size: size, calls: make([]Invocation, 0, size)}
}

func (h *history) add(inv Invocation) {
	if h.size == 0 {
		return
	}
	if !h.full {
		h.calls = append(h.calls, inv)
		if len(h.calls) == h.size {
			h.full = true
		}
		return
	}
	h.calls[h.next] = inv
	h.next = (h.next + 1) % h.size
}

func (h *history) list() []Invocation {
	out := make([]Invocation, 0, len(h.calls))
	out = append(out, h.calls[h.next:]...)
	out = append(out, h.calls[:h.next]...)
	return out
}

func (h *history) reset() {
	h.calls = h.calls[:0]
	h.next = 0
	h.full = false
}

func (h *history) String() string {
	calls := h.list()
	lines := make([]string, len(calls))
	for i, inv := range calls {
		lines[i] = "    " + inv.String()
	}
	return strings.Join(lines, "\n")
}
