package engine

// worklist is the FIFO of cells whose neighbourhood must be re-examined.
//
// Each in-grid cell has a slot in queued; a cell already waiting is not
// pushed again, which bounds the queue length by the number of cells.
// Not safe for concurrent use: only the Sequence that owns it touches it.
type worklist struct {
	items  []queuedCell
	queued []bool
}

type queuedCell struct {
	coord Coord
	slot  int
}

func newWorklist(cells int) *worklist {
	return &worklist{
		items:  make([]queuedCell, 0, 64),
		queued: make([]bool, cells),
	}
}

// push adds c unless it is already waiting.
func (w *worklist) push(c Coord, slot int) {
	if w.queued[slot] {
		return
	}
	w.queued[slot] = true
	w.items = append(w.items, queuedCell{coord: c, slot: slot})
}

// pop removes the front cell. Returns false when the worklist is empty.
func (w *worklist) pop() (Coord, bool) {
	if len(w.items) == 0 {
		return Coord{}, false
	}
	front := w.items[0]
	if len(w.items) == 1 {
		w.items = w.items[:0]
	} else {
		w.items = w.items[1:]
	}
	w.queued[front.slot] = false
	return front.coord, true
}

// Len returns the number of waiting cells.
func (w *worklist) Len() int {
	return len(w.items)
}

// reset drops every waiting cell. Used after a conflict aborts a pass.
func (w *worklist) reset() {
	for _, it := range w.items {
		w.queued[it.slot] = false
	}
	w.items = w.items[:0]
}
