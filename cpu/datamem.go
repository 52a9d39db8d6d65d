package cpu

import (
	"github.com/tomdriley/turtle-toolkit/busval"
)

// The RTL data memory read path is combinational, so the latency is
// zero. The request/complete handshake is kept anyway; the driver's
// stall logic is uniform across both memories.
const DATA_MEMORY_LATENCY_CYCLES = 0

// DataMemory is the sparse byte-addressed data store.
type DataMemory struct {
	mem *latencyMemory[busval.DataAddr, busval.Data]
}

func NewDataMemory() *DataMemory {
	return &DataMemory{mem: newLatencyMemory[busval.DataAddr, busval.Data]("data memory", DATA_MEMORY_LATENCY_CYCLES)}
}

// RequestLoad starts a load at addr.
func (d *DataMemory) RequestLoad(addr busval.DataAddr) error {
	return d.mem.startOp(addr, nil)
}

// LoadReady reports whether the pending load has completed.
func (d *DataMemory) LoadReady() bool {
	return d.mem.operationComplete()
}

// LoadResult reads the loaded value; a load from a never-written
// address is a segfault.
func (d *DataMemory) LoadResult() (busval.Data, error) {
	return d.mem.readValue()
}

// RequestStore starts a store of value at addr.
func (d *DataMemory) RequestStore(addr busval.DataAddr, value busval.Data) error {
	return d.mem.startOp(addr, &value)
}

// StoreComplete reports whether the pending store has completed,
// applying the write when it has.
func (d *DataMemory) StoreComplete() bool {
	complete := d.mem.operationComplete()
	if complete {
		d.mem.completeWrite()
	}
	return complete
}

// Tick advances the latency countdown; called once per cycle.
func (d *DataMemory) Tick() {
	d.mem.tick()
}

// Snapshot returns a copy of the written cells keyed by unsigned
// address.
func (d *DataMemory) Snapshot() map[uint16]uint16 {
	out := make(map[uint16]uint16, len(d.mem.cells))
	for addr, v := range d.mem.cells {
		out[addr.Unsigned()] = v.Unsigned()
	}
	return out
}
