package cpu

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/tomdriley/turtle-toolkit/busval"
)

func TestDataMemoryStoreLoad(t *testing.T) {
	dm := NewDataMemory()
	addr := busval.MustDataAddr(0x0010)

	// The data memory path is combinational (latency 0): a request
	// completes in the cycle it was issued.
	if err := dm.RequestStore(addr, busval.MustData(0x5A)); err != nil {
		t.Fatalf("RequestStore failed: %v", err)
	}
	if !dm.StoreComplete() {
		t.Fatalf("store should complete immediately at latency %d", DATA_MEMORY_LATENCY_CYCLES)
	}

	if err := dm.RequestLoad(addr); err != nil {
		t.Fatalf("RequestLoad failed: %v", err)
	}
	if !dm.LoadReady() {
		t.Fatalf("load should be ready immediately at latency %d", DATA_MEMORY_LATENCY_CYCLES)
	}
	v, err := dm.LoadResult()
	if err != nil {
		t.Fatalf("LoadResult failed: %v", err)
	}
	if v.Unsigned() != 0x5A {
		t.Errorf("loaded 0x%02x, want 0x5A", v.Unsigned())
	}
}

func TestDataMemorySegfault(t *testing.T) {
	dm := NewDataMemory()

	if err := dm.RequestLoad(busval.MustDataAddr(0x0100)); err != nil {
		t.Fatalf("RequestLoad failed: %v", err)
	}
	if !dm.LoadReady() {
		t.Fatalf("load should be ready immediately")
	}
	if _, err := dm.LoadResult(); !errors.Is(err, ErrSegfault) {
		t.Errorf("load from an unwritten address returned %v, want ErrSegfault", err)
	}
}

func TestDataMemoryConflicts(t *testing.T) {
	dm := NewDataMemory()
	a, b := busval.MustDataAddr(1), busval.MustDataAddr(2)

	if err := dm.RequestLoad(a); err != nil {
		t.Fatalf("RequestLoad failed: %v", err)
	}
	// Re-requesting the same address is idempotent.
	if err := dm.RequestLoad(a); err != nil {
		t.Errorf("repeated RequestLoad at the same address failed: %v", err)
	}
	// A different address while one is outstanding is a protocol
	// violation.
	if err := dm.RequestLoad(b); err == nil {
		t.Errorf("RequestLoad at a conflicting address should fail")
	}
}

func TestDataMemoryStoreValueConflict(t *testing.T) {
	dm := NewDataMemory()
	addr := busval.MustDataAddr(1)

	if err := dm.RequestStore(addr, busval.MustData(1)); err != nil {
		t.Fatalf("RequestStore failed: %v", err)
	}
	if err := dm.RequestStore(addr, busval.MustData(1)); err != nil {
		t.Errorf("repeated RequestStore with the same value failed: %v", err)
	}
	if err := dm.RequestStore(addr, busval.MustData(2)); err == nil {
		t.Errorf("RequestStore with a conflicting value should fail")
	}
}

func TestDataMemoryResultWithoutRequest(t *testing.T) {
	dm := NewDataMemory()
	if _, err := dm.LoadResult(); err == nil {
		t.Errorf("LoadResult with no pending read should fail")
	}
}

func TestDataMemorySnapshot(t *testing.T) {
	dm := NewDataMemory()
	for _, w := range []struct{ addr, val int }{{0, 1}, {0x10, 2}, {0xFFFF, 3}} {
		if err := dm.RequestStore(busval.MustDataAddr(w.addr), busval.MustData(w.val)); err != nil {
			t.Fatalf("RequestStore failed: %v", err)
		}
		if !dm.StoreComplete() {
			t.Fatalf("store didn't complete")
		}
	}

	snap := dm.Snapshot()
	if len(snap) != 3 || snap[0] != 1 || snap[0x10] != 2 || snap[0xFFFF] != 3 {
		t.Errorf("Snapshot() = %v, want the three written cells", snap)
	}
}
