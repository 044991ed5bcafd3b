package physics

import "strconv"

// Handle is an opaque, generation-checked reference into a World arena.
// The low 32 bits hold the slot index, the high 32 bits its generation.
type Handle uint64

type slot uint32
type generation uint32

const slotBits = 32

func makeHandle(s slot, gen generation) Handle {
	return Handle(uint64(gen)<<slotBits | uint64(s))
}

func (h Handle) slot() slot {
	return slot(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotBits))
}

// Index returns the arena slot of the handle. Slots are reused after removal.
func (h Handle) Index() uint32 {
	return uint32(h.slot())
}

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint32 {
	return uint32(h.generation())
}

// Valid reports whether the handle was ever issued. It says nothing about
// liveness; use the World lookups for that.
func (h Handle) Valid() bool {
	return h.generation() > 0
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.slot()), 10) + "v" + strconv.FormatUint(uint64(h.generation()), 10)
}

// arena stores values in dense slots with a free list. Removing a value bumps
// the slot generation so handles to the old occupant no longer resolve.
type arena[T any] struct {
	entries []arenaEntry[T]
	free    []slot
	live    int
}

type arenaEntry[T any] struct {
	gen   generation
	alive bool
	value T
}

func (a *arena[T]) insert(v T) Handle {
	var s slot
	if len(a.free) > 0 {
		s = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	} else {
		s = slot(len(a.entries))
		a.entries = append(a.entries, arenaEntry[T]{})
	}
	e := &a.entries[s]
	e.gen++
	e.alive = true
	e.value = v
	a.live++
	return makeHandle(s, e.gen)
}

func (a *arena[T]) get(h Handle) (*T, bool) {
	s := h.slot()
	if int(s) >= len(a.entries) {
		return nil, false
	}
	e := &a.entries[s]
	if !e.alive || e.gen != h.generation() {
		return nil, false
	}
	return &e.value, true
}

func (a *arena[T]) remove(h Handle) (T, bool) {
	var zero T
	if _, ok := a.get(h); !ok {
		return zero, false
	}
	e := &a.entries[h.slot()]
	v := e.value
	e.value = zero
	e.alive = false
	a.free = append(a.free, h.slot())
	a.live--
	return v, true
}

func (a *arena[T]) len() int {
	return a.live
}

// each visits live values in slot order.
func (a *arena[T]) each(fn func(Handle, *T)) {
	for i := range a.entries {
		e := &a.entries[i]
		if !e.alive {
			continue
		}
		fn(makeHandle(slot(i), e.gen), &e.value)
	}
}
