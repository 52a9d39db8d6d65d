// Package cpu models the Turtle CPU microarchitecture: ALU, register
// file, data and instruction memories, program counter, decoder, and
// the per-cycle simulator driver that orchestrates them. Every stateful
// module buffers its writes as pending state and applies them in a
// commit step, so reads within a cycle always observe the previous
// cycle's values.
package cpu

import "github.com/pkg/errors"

// ErrSegfault marks a load from an address that has never been written.
var ErrSegfault = errors.New("segmentation fault: address has not been written")

// latencyMemory is a sparse memory with a fixed access latency, shared
// by the data and instruction memories. At most one operation may be
// outstanding; re-requesting the same address (and value, for stores)
// while the countdown runs is idempotent, anything else is a protocol
// violation.
type latencyMemory[A comparable, V comparable] struct {
	name        string
	latency     int
	cells       map[A]V
	pendingAddr *A
	pendingData *V
	remaining   int // countdown; -1 when no operation is running
}

func newLatencyMemory[A comparable, V comparable](name string, latency int) *latencyMemory[A, V] {
	return &latencyMemory[A, V]{
		name:      name,
		latency:   latency,
		cells:     make(map[A]V),
		remaining: -1,
	}
}

func (m *latencyMemory[A, V]) startOp(addr A, data *V) error {
	if m.pendingAddr != nil && *m.pendingAddr != addr {
		return errors.Errorf("%s: operation requested for address %v while another is pending for %v",
			m.name, addr, *m.pendingAddr)
	}
	if data != nil && m.pendingData != nil && *m.pendingData != *data {
		return errors.Errorf("%s: operation requested with value %v while another is pending with %v",
			m.name, *data, *m.pendingData)
	}
	m.pendingAddr = &addr
	m.pendingData = data
	if m.remaining < 0 {
		m.remaining = m.latency
	}
	return nil
}

// operationComplete reports whether the countdown has run out, clearing
// it when it has.
func (m *latencyMemory[A, V]) operationComplete() bool {
	if m.remaining == 0 {
		m.remaining = -1
		return true
	}
	return false
}

func (m *latencyMemory[A, V]) readValue() (V, error) {
	var zero V
	if m.pendingAddr == nil {
		return zero, errors.Errorf("%s: no read operation pending", m.name)
	}
	v, ok := m.cells[*m.pendingAddr]
	if !ok {
		return zero, errors.Wrapf(ErrSegfault, "%s: load from %v", m.name, *m.pendingAddr)
	}
	m.pendingAddr = nil
	m.pendingData = nil
	return v, nil
}

func (m *latencyMemory[A, V]) completeWrite() {
	if m.pendingAddr != nil && m.pendingData != nil {
		m.cells[*m.pendingAddr] = *m.pendingData
		m.pendingAddr = nil
		m.pendingData = nil
	}
}

// tick advances the latency countdown. Called once per cycle, stalled
// cycles included.
func (m *latencyMemory[A, V]) tick() {
	if m.remaining > 0 {
		m.remaining--
	}
}

func (m *latencyMemory[A, V]) idle() bool {
	return m.pendingAddr == nil && m.remaining < 0
}

func (m *latencyMemory[A, V]) clear() {
	m.cells = make(map[A]V)
	m.pendingAddr = nil
	m.pendingData = nil
	m.remaining = -1
}
