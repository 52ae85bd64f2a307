package main

import (
	"fmt"
	"io"

	"github.com/edwingeng/deque"
)

const historyLimit = 100

// history keeps the most recent prompt inputs, oldest first.
type history struct {
	lines deque.Deque
	limit int
}

func newHistory(limit int) *history {
	return &history{lines: deque.NewDeque(), limit: limit}
}

func (h *history) add(line string) {
	h.lines.PushBack(line)
	for h.lines.Len() > h.limit {
		h.lines.PopFront()
	}
}

// entries returns the kept lines in order. The deque is rotated once through
// so it ends unchanged.
func (h *history) entries() []string {
	n := h.lines.Len()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line := h.lines.Front().(string)
		h.lines.PopFront()
		out = append(out, line)
		h.lines.PushBack(line)
	}
	return out
}

func (h *history) print(w io.Writer) {
	for i, line := range h.entries() {
		fmt.Fprintf(w, "%4d  %s\n", i+1, line)
	}
}
