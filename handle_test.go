package micropdf_test

import (
	"sync"
	"testing"

	"github.com/Lexmata/micropdf"
)

type testBuffer struct {
	data []byte
}

func TestTable(t *testing.T) {
	t.Run("insert and get", insertAndGet)
	t.Run("invalid handle", invalidHandle)
	t.Run("idempotent removal", tableIdempotentRemoval)
	t.Run("slot survives removal", slotSurvivesRemoval)
	t.Run("keep and drop", keepAndDrop)
	t.Run("remove ignores references", removeIgnoresReferences)
	t.Run("handles are unique", handlesAreUnique)
	t.Run("concurrent slot access", concurrentSlotAccess)
}

func insertAndGet(t *testing.T) {
	t.Parallel()
	var (
		table  = micropdf.NewTable[testBuffer]()
		handle = table.Insert(testBuffer{data: []byte("payload")})
	)
	if handle == micropdf.InvalidHandle {
		t.Fatal("Insert returned the invalid handle")
	}
	slot := mustResolve(t, table, handle)
	if got := slot.Value().data; string(got) != "payload" {
		t.Fatalf(
			"expected slot to hold the inserted value"+
				"\n\tgot: %q"+
				"\n\twant: %q",
			got, "payload")
	}
	if got := table.Len(); got != 1 {
		t.Errorf("expected table length 1 but got: %d", got)
	}
}

func invalidHandle(t *testing.T) {
	t.Parallel()
	table := micropdf.NewTable[testBuffer]()
	if _, ok := table.Get(micropdf.InvalidHandle); ok {
		t.Error("expected Get of the invalid handle to miss")
	}
	if _, ok := table.Remove(micropdf.InvalidHandle); ok {
		t.Error("expected Remove of the invalid handle to miss")
	}
	if got := table.Keep(micropdf.InvalidHandle); got != micropdf.InvalidHandle {
		t.Errorf("expected Keep of the invalid handle to fail but got: %d", got)
	}
}

func tableIdempotentRemoval(t *testing.T) {
	t.Parallel()
	var (
		table  = micropdf.NewTable[testBuffer]()
		handle = table.Insert(testBuffer{})
	)
	if _, ok := table.Remove(handle); !ok {
		t.Fatal("expected first removal to resolve")
	}
	if _, ok := table.Remove(handle); ok {
		t.Error("expected second removal to miss")
	}
	if _, ok := table.Get(handle); ok {
		t.Error("expected Get to miss after removal")
	}
}

func slotSurvivesRemoval(t *testing.T) {
	t.Parallel()
	var (
		table  = micropdf.NewTable[testBuffer]()
		handle = table.Insert(testBuffer{data: []byte("outlives")})
	)
	slot := mustResolve(t, table, handle)
	if _, ok := table.Remove(handle); !ok {
		t.Fatal("expected removal to resolve")
	}
	// Removal detaches only the table's reference;
	// the held slot still guards a live value.
	if got := slot.Value().data; string(got) != "outlives" {
		t.Fatalf(
			"expected detached slot to stay usable"+
				"\n\tgot: %q"+
				"\n\twant: %q",
			got, "outlives")
	}
}

func keepAndDrop(t *testing.T) {
	t.Parallel()
	var (
		table  = micropdf.NewTable[testBuffer]()
		handle = table.Insert(testBuffer{})
	)
	if got := table.Keep(handle); got != handle {
		t.Fatalf(
			"expected Keep to return the handle"+
				"\n\tgot: %d"+
				"\n\twant: %d",
			got, handle)
	}
	table.Drop(handle)
	mustResolve(t, table, handle)
	table.Drop(handle)
	if _, ok := table.Get(handle); ok {
		t.Error("expected the slot to be detached after the final drop")
	}
	table.Drop(handle) // Dropping an unknown handle is a no-op.
}

func removeIgnoresReferences(t *testing.T) {
	t.Parallel()
	var (
		table  = micropdf.NewTable[testBuffer]()
		handle = table.Insert(testBuffer{})
	)
	table.Keep(handle)
	if _, ok := table.Remove(handle); !ok {
		t.Fatal("expected Remove to detach regardless of the reference count")
	}
	if _, ok := table.Get(handle); ok {
		t.Error("expected Get to miss after forced removal")
	}
}

func handlesAreUnique(t *testing.T) {
	t.Parallel()
	const perTable = 64
	var (
		buffers = micropdf.NewTable[testBuffer]()
		ints    = micropdf.NewTable[int]()
		seen    = make(map[micropdf.Handle]struct{}, perTable*2)
	)
	for i := range perTable {
		seen[buffers.Insert(testBuffer{})] = struct{}{}
		seen[ints.Insert(i)] = struct{}{}
	}
	// The allocator is process-wide: handles from distinct
	// tables must never collide.
	if got := len(seen); got != perTable*2 {
		t.Fatalf(
			"expected all handles to be distinct"+
				"\n\tgot: %d"+
				"\n\twant: %d",
			got, perTable*2)
	}
	var iterated int
	for handle := range buffers.Handles() {
		if _, ok := seen[handle]; !ok {
			t.Fatalf("iterator yielded an unknown handle: %d", handle)
		}
		iterated++
	}
	if iterated != perTable {
		t.Errorf(
			"expected the iterator to yield every handle"+
				"\n\tgot: %d"+
				"\n\twant: %d",
			iterated, perTable)
	}
}

func concurrentSlotAccess(t *testing.T) {
	t.Parallel()
	const (
		workers    = 8
		increments = 1000
	)
	var (
		table  = micropdf.NewTable[int]()
		handle = table.Insert(0)
		wg     sync.WaitGroup
	)
	for range workers {
		wg.Go(func() {
			for range increments {
				slot, ok := table.Get(handle)
				if !ok {
					t.Error("expected the handle to stay resolvable")
					return
				}
				slot.With(func(count *int) { *count++ })
			}
		})
	}
	wg.Wait()
	slot := mustResolve(t, table, handle)
	const want = workers * increments
	if got := slot.Value(); got != want {
		t.Fatalf(
			"expected every increment to be serialized by the slot lock"+
				"\n\tgot: %d"+
				"\n\twant: %d",
			got, want)
	}
}

func mustResolve[Value any](
	tb testing.TB,
	table *micropdf.Table[Value],
	handle micropdf.Handle,
) *micropdf.Slot[Value] {
	tb.Helper()
	slot, ok := table.Get(handle)
	if !ok {
		tb.Fatalf("expected handle %d to resolve", handle)
	}
	return slot
}
