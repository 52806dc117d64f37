package port

// slotMap is the sparse index→socket store shared by OutPort and InPort.
// Non-addressable ports use it as an append-only set keyed by internal
// sequence numbers the caller never sees; addressable ports expose the key
// as the port's public index.
type slotMap struct {
	addressable bool
	bySlot      map[int]*InternalSocket
	next        int
}

func newSlotMap(addressable bool) *slotMap {
	return &slotMap{addressable: addressable, bySlot: make(map[int]*InternalSocket)}
}

// attach stores socket under index, or under the next free internal slot
// if index is nil. It returns the slot actually used.
func (m *slotMap) attach(socket *InternalSocket, index *int) int {
	slot := m.next
	if index != nil {
		slot = *index
	}
	m.bySlot[slot] = socket
	if slot >= m.next {
		m.next = slot + 1
	}
	return slot
}

// detach removes socket, wherever it is attached, and reports whether it
// was found.
func (m *slotMap) detach(socket *InternalSocket) bool {
	for slot, s := range m.bySlot {
		if s == socket {
			delete(m.bySlot, slot)
			return true
		}
	}
	return false
}

// all returns every attached socket, regardless of slot.
func (m *slotMap) all() []*InternalSocket {
	out := make([]*InternalSocket, 0, len(m.bySlot))
	for _, s := range m.bySlot {
		out = append(out, s)
	}
	return out
}

// at returns the socket attached at index; a nil index selects every
// attached socket.
func (m *slotMap) at(index *int) []*InternalSocket {
	if index == nil {
		return m.all()
	}
	if s, ok := m.bySlot[*index]; ok {
		return []*InternalSocket{s}
	}
	return nil
}

func (m *slotMap) len() int { return len(m.bySlot) }
