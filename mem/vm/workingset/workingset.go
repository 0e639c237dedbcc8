// Package workingset implements the per-process set of resident pages, kept
// in least-recently-used order.
//
// Entries live in a fixed arena sized to the working-set limit and are linked
// by slot index, so admitting and evicting pages never allocates.
package workingset

import (
	"log"

	"github.com/sarchlab/wssim/mem/vm"
)

const nilSlot = -1

type entry struct {
	binding vm.Binding
	prev    int
	next    int
}

// A WorkingSet holds up to Limit resident pages. The head of the list is the
// least recently used page, the tail the most recently used one.
type WorkingSet struct {
	limit     int
	entries   []entry
	freeSlots []int
	head      int
	tail      int
	slotOf    map[vm.PageNumber]int
}

// New creates an empty working set that can hold limit pages.
func New(limit int) *WorkingSet {
	if limit <= 0 {
		log.Panicf("working set limit must be positive, got %d", limit)
	}

	ws := &WorkingSet{
		limit:     limit,
		entries:   make([]entry, limit),
		freeSlots: make([]int, 0, limit),
		head:      nilSlot,
		tail:      nilSlot,
		slotOf:    make(map[vm.PageNumber]int, limit),
	}

	for i := limit - 1; i >= 0; i-- {
		ws.freeSlots = append(ws.freeSlots, i)
	}

	return ws
}

// Lookup returns the frame of a resident page and marks the page as the most
// recently used one. A miss leaves the set untouched.
func (ws *WorkingSet) Lookup(page vm.PageNumber) (vm.Frame, bool) {
	slot, found := ws.slotOf[page]
	if !found {
		return 0, false
	}

	if slot != ws.tail {
		ws.unlink(slot)
		ws.linkBack(slot)
	}

	return ws.entries[slot].binding.Frame, true
}

// Contains tells whether a page is resident without touching it.
func (ws *WorkingSet) Contains(page vm.PageNumber) bool {
	_, found := ws.slotOf[page]
	return found
}

// Admit makes a page resident in the given frame, as the most recently used
// page. The page must not be resident and the set must not be full.
func (ws *WorkingSet) Admit(page vm.PageNumber, frame vm.Frame) {
	if ws.Contains(page) {
		log.Panicf("page %d is already resident", page)
	}

	if ws.IsFull() {
		log.Panicf("admitting page %d into a full working set", page)
	}

	slot := ws.freeSlots[len(ws.freeSlots)-1]
	ws.freeSlots = ws.freeSlots[:len(ws.freeSlots)-1]

	ws.entries[slot] = entry{
		binding: vm.Binding{Page: page, Frame: frame},
		prev:    nilSlot,
		next:    nilSlot,
	}
	ws.linkBack(slot)
	ws.slotOf[page] = slot
}

// EvictLeastRecentlyUsed removes the least recently used page and returns its
// binding. The set must not be empty.
func (ws *WorkingSet) EvictLeastRecentlyUsed() vm.Binding {
	if ws.IsEmpty() {
		log.Panic("evicting from an empty working set")
	}

	slot := ws.head
	b := ws.entries[slot].binding

	ws.unlink(slot)
	delete(ws.slotOf, b.Page)
	ws.entries[slot] = entry{}
	ws.freeSlots = append(ws.freeSlots, slot)

	return b
}

// Residency lists the resident bindings from least to most recently used.
func (ws *WorkingSet) Residency() []vm.Binding {
	bindings := make([]vm.Binding, 0, ws.Len())
	for slot := ws.head; slot != nilSlot; slot = ws.entries[slot].next {
		bindings = append(bindings, ws.entries[slot].binding)
	}

	return bindings
}

// IsFull tells whether the number of resident pages reached the limit.
func (ws *WorkingSet) IsFull() bool {
	return ws.Len() == ws.limit
}

// IsEmpty tells whether no page is resident.
func (ws *WorkingSet) IsEmpty() bool {
	return ws.Len() == 0
}

// Len returns the number of resident pages.
func (ws *WorkingSet) Len() int {
	return len(ws.slotOf)
}

// Limit returns the maximum number of resident pages.
func (ws *WorkingSet) Limit() int {
	return ws.limit
}

// RemainingSlots returns how many more pages can be admitted.
func (ws *WorkingSet) RemainingSlots() int {
	return ws.limit - ws.Len()
}

func (ws *WorkingSet) unlink(slot int) {
	e := &ws.entries[slot]

	if e.prev != nilSlot {
		ws.entries[e.prev].next = e.next
	} else {
		ws.head = e.next
	}

	if e.next != nilSlot {
		ws.entries[e.next].prev = e.prev
	} else {
		ws.tail = e.prev
	}

	e.prev = nilSlot
	e.next = nilSlot
}

func (ws *WorkingSet) linkBack(slot int) {
	e := &ws.entries[slot]
	e.prev = ws.tail
	e.next = nilSlot

	if ws.tail != nilSlot {
		ws.entries[ws.tail].next = slot
	} else {
		ws.head = slot
	}

	ws.tail = slot
}
