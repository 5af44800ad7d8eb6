package texmem

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/texture"
)

const testPageSize = 4096

func newTestManager(t *testing.T, slots, pages int) *Manager {
	t.Helper()
	m, err := New(Config{Slots: slots, Pages: pages, PageSize: testPageSize})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func newObject(t *testing.T, w, h int) *texture.Object {
	t.Helper()
	data := make([]byte, w*h*2)
	for i := range data {
		data[i] = byte(i)
	}
	obj, err := texture.New(w, h, texture.RGBA4444, data)
	if err != nil {
		t.Fatalf("texture.New() error = %v", err)
	}
	return obj
}

type chunk struct {
	addr uint32
	data []byte
}

func recordSink(out *[]chunk) Sink {
	return func(addr uint32, data []byte) error {
		*out = append(*out, chunk{addr, append([]byte(nil), data...)})
		return nil
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []Config{
		{Slots: 1, Pages: 4, PageSize: 4096},
		{Slots: 8, Pages: 0, PageSize: 4096},
		{Slots: 8, Pages: 4, PageSize: 0},
	}
	for _, cfg := range tests {
		if _, err := New(cfg); err == nil {
			t.Errorf("New(%+v) error = nil, want error", cfg)
		}
	}
}

func TestCreate(t *testing.T) {
	m := newTestManager(t, 4, 4)

	for want := ID(1); want < 4; want++ {
		id, err := m.Create()
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if id != want {
			t.Errorf("Create() = %d, want %d", id, want)
		}
		if m.Valid(id) {
			t.Errorf("Valid(%d) = true before Update", id)
		}
	}
	if _, err := m.Create(); !errors.Is(err, ErrNoFreeID) {
		t.Errorf("Create() error = %v, want ErrNoFreeID", err)
	}
}

func TestUpdateAndUpload(t *testing.T) {
	m := newTestManager(t, 8, 16)
	id, _ := m.Create()
	obj := newObject(t, 4, 4)

	if err := m.Update(id, obj); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	info, ok := m.Info(id)
	if !ok {
		t.Fatal("Info() ok = false")
	}
	if len(info.Pages) != 1 {
		t.Errorf("len(Pages) = %d, want 1", len(info.Pages))
	}
	if !info.PendingUpload {
		t.Error("PendingUpload = false, want true")
	}
	if info.Size != 32 {
		t.Errorf("Size = %d, want 32", info.Size)
	}

	var got []chunk
	if err := m.Upload(recordSink(&got)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("sink calls = %d, want 1", len(got))
	}
	if want := info.Pages[0] * testPageSize; got[0].addr != want {
		t.Errorf("addr = %#x, want %#x", got[0].addr, want)
	}
	if len(got[0].data) != 32 {
		t.Errorf("len(data) = %d, want 32", len(got[0].data))
	}
	for i, b := range got[0].data {
		if b != byte(i) {
			t.Fatalf("data[%d] = %d, want %d", i, b, i)
		}
	}
	info, _ = m.Info(id)
	if info.PendingUpload {
		t.Error("PendingUpload = true after Upload")
	}

	got = got[:0]
	if err := m.Upload(recordSink(&got)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("second Upload sink calls = %d, want 0", len(got))
	}
}

func TestUpload_MultiPage(t *testing.T) {
	m := newTestManager(t, 8, 16)
	id, _ := m.Create()
	obj := newObject(t, 64, 64) // 8192 bytes

	if err := m.Update(id, obj); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	info, _ := m.Info(id)
	if len(info.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(info.Pages))
	}

	var got []chunk
	if err := m.Upload(recordSink(&got)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sink calls = %d, want 2", len(got))
	}
	for i, c := range got {
		if want := info.Pages[i] * testPageSize; c.addr != want {
			t.Errorf("chunk %d addr = %#x, want %#x", i, c.addr, want)
		}
		if len(c.data) != testPageSize {
			t.Errorf("chunk %d len = %d, want %d", i, len(c.data), testPageSize)
		}
	}
}

func TestUpload_RetryOnFailure(t *testing.T) {
	m := newTestManager(t, 8, 16)
	id, _ := m.Create()
	_ = m.Update(id, newObject(t, 4, 4))

	errBusy := errors.New("busy")
	err := m.Upload(func(uint32, []byte) error { return errBusy })
	if !errors.Is(err, errBusy) {
		t.Fatalf("Upload() error = %v, want %v", err, errBusy)
	}
	if info, _ := m.Info(id); !info.PendingUpload {
		t.Fatal("PendingUpload = false after failed upload")
	}

	var got []chunk
	if err := m.Upload(recordSink(&got)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("sink calls = %d, want 1", len(got))
	}
}

func TestUpdate_MovesToNewSlot(t *testing.T) {
	m := newTestManager(t, 8, 16)
	id, _ := m.Create()
	_ = m.Update(id, newObject(t, 4, 4))
	first, _ := m.Info(id)

	if err := m.Update(id, newObject(t, 4, 4)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	second, _ := m.Info(id)
	if second.Slot == first.Slot {
		t.Errorf("Slot = %d, want a new slot", second.Slot)
	}
	if second.Pages[0] == first.Pages[0] {
		t.Errorf("Pages[0] = %d, old page reused before collection", second.Pages[0])
	}

	// The old slot still holds its pages until the garbage pass.
	if got, want := m.FreePages(), 14; got != want {
		t.Errorf("FreePages() = %d, want %d", got, want)
	}
	st := m.Stats()
	if st.PendingDelete != 1 {
		t.Errorf("PendingDelete = %d, want 1", st.PendingDelete)
	}

	_ = m.Upload(recordSink(new([]chunk)))
	if got, want := m.FreePages(), 15; got != want {
		t.Errorf("FreePages() after Upload = %d, want %d", got, want)
	}
	if st := m.Stats(); st.PendingDelete != 0 || st.SlotsInUse != 1 {
		t.Errorf("Stats() = %+v, want 1 slot in use and none pending delete", st)
	}
}

func TestUpdate_StorageOnlyReusesSlot(t *testing.T) {
	m := newTestManager(t, 8, 16)
	id, _ := m.Create()
	empty, err := texture.New(64, 64, texture.RGB565, nil)
	if err != nil {
		t.Fatalf("texture.New() error = %v", err)
	}
	if err := m.Update(id, empty); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	first, _ := m.Info(id)

	if err := m.Update(id, newObject(t, 4, 4)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	second, _ := m.Info(id)
	if second.Slot != first.Slot {
		t.Errorf("Slot = %d, want %d", second.Slot, first.Slot)
	}
	if len(second.Pages) != 1 {
		t.Errorf("len(Pages) = %d, want 1", len(second.Pages))
	}
	if got, want := m.FreePages(), 15; got != want {
		t.Errorf("FreePages() = %d, want %d", got, want)
	}
}

func TestUpdate_StorageOnlyGrowsInPlace(t *testing.T) {
	m := newTestManager(t, 8, 4)
	id, _ := m.Create()
	empty, err := texture.New(64, 64, texture.RGB565, nil) // 2 pages
	if err != nil {
		t.Fatalf("texture.New() error = %v", err)
	}
	if err := m.Update(id, empty); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	first, _ := m.Info(id)

	if err := m.Update(id, newObject(t, 128, 64)); err != nil { // 4 pages
		t.Fatalf("Update() error = %v", err)
	}
	second, _ := m.Info(id)
	if second.Slot != first.Slot {
		t.Errorf("Slot = %d, want %d", second.Slot, first.Slot)
	}
	if len(second.Pages) != 4 {
		t.Errorf("len(Pages) = %d, want 4", len(second.Pages))
	}
	if got := m.FreePages(); got != 0 {
		t.Errorf("FreePages() = %d, want 0", got)
	}
}

func TestUpdate_StorageOnlyFailureKeepsPages(t *testing.T) {
	m := newTestManager(t, 8, 4)
	id, _ := m.Create()
	empty, err := texture.New(64, 64, texture.RGB565, nil)
	if err != nil {
		t.Fatalf("texture.New() error = %v", err)
	}
	if err := m.Update(id, empty); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	before, _ := m.Info(id)

	err = m.Update(id, newObject(t, 128, 128)) // 8 pages
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("Update() error = %v, want ErrOutOfMemory", err)
	}
	after, _ := m.Info(id)
	if after.Slot != before.Slot || len(after.Pages) != 2 ||
		after.Pages[0] != before.Pages[0] || after.Pages[1] != before.Pages[1] {
		t.Errorf("Info() = %+v, want %+v", after, before)
	}
	if got := m.FreePages(); got != 2 {
		t.Errorf("FreePages() = %d, want 2", got)
	}

	// The kept pages are still owned: a second texture gets the other two.
	other, _ := m.Create()
	if err := m.Update(other, newObject(t, 64, 64)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	info, _ := m.Info(other)
	for _, p := range info.Pages {
		if p == before.Pages[0] || p == before.Pages[1] {
			t.Errorf("page %d handed out twice", p)
		}
	}
}

func TestUpdate_FailureKeepsState(t *testing.T) {
	m := newTestManager(t, 8, 2)
	id, _ := m.Create()
	_ = m.Update(id, newObject(t, 4, 4))
	before, _ := m.Info(id)

	err := m.Update(id, newObject(t, 128, 128)) // 8 pages
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("Update() error = %v, want ErrOutOfMemory", err)
	}
	after, _ := m.Info(id)
	if after.Slot != before.Slot || after.Pages[0] != before.Pages[0] {
		t.Errorf("Info() = %+v, want %+v", after, before)
	}
	if got := m.FreePages(); got != 1 {
		t.Errorf("FreePages() = %d, want 1", got)
	}
	if st := m.Stats(); st.PendingDelete != 0 {
		t.Errorf("PendingDelete = %d, want 0", st.PendingDelete)
	}
}

func TestUpdate_NoFreeSlot(t *testing.T) {
	m := newTestManager(t, 3, 16)
	a, _ := m.Create()
	b, _ := m.Create()
	_ = m.Update(a, newObject(t, 4, 4))
	_ = m.Update(b, newObject(t, 4, 4))

	if err := m.Update(a, newObject(t, 4, 4)); !errors.Is(err, ErrNoFreeSlot) {
		t.Errorf("Update() error = %v, want ErrNoFreeSlot", err)
	}
}

func TestUpdate_InvalidID(t *testing.T) {
	m := newTestManager(t, 4, 4)
	obj := newObject(t, 4, 4)
	for _, id := range []ID{0, 1, 100} {
		if err := m.Update(id, obj); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Update(%d) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestDelete(t *testing.T) {
	m := newTestManager(t, 4, 4)
	id, _ := m.Create()
	obj := newObject(t, 4, 4)
	_ = m.Update(id, obj)
	pixels := obj.Pixels()
	if got := pixels.Refs(); got != 2 {
		t.Fatalf("Refs() = %d, want 2", got)
	}

	if err := m.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if m.Valid(id) {
		t.Error("Valid() = true after Delete")
	}
	if err := m.Delete(id); !errors.Is(err, ErrInvalidID) {
		t.Errorf("second Delete() error = %v, want ErrInvalidID", err)
	}
	if got := m.FreePages(); got != 3 {
		t.Errorf("FreePages() before collection = %d, want 3", got)
	}

	_ = m.Upload(recordSink(new([]chunk)))
	if got := m.FreePages(); got != 4 {
		t.Errorf("FreePages() after collection = %d, want 4", got)
	}
	if got := pixels.Refs(); got != 1 {
		t.Errorf("Refs() after collection = %d, want 1", got)
	}

	// The ID is free again.
	if again, _ := m.Create(); again != id {
		t.Errorf("Create() = %d, want %d", again, id)
	}
}

func TestDelete_PendingSlotNotReused(t *testing.T) {
	m := newTestManager(t, 3, 4)
	a, _ := m.Create()
	_ = m.Update(a, newObject(t, 4, 4))
	slotA, _ := m.Info(a)
	_ = m.Delete(a)

	b, _ := m.Create()
	if err := m.Update(b, newObject(t, 4, 4)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	info, _ := m.Info(b)
	if info.Slot == slotA.Slot {
		t.Errorf("Slot = %d reused before collection", info.Slot)
	}
}

func TestSamplerState(t *testing.T) {
	m := newTestManager(t, 4, 4)
	id, _ := m.Create()

	s, err := m.Sampler(id)
	if err != nil {
		t.Fatalf("Sampler() error = %v", err)
	}
	if s != texture.DefaultSampler() {
		t.Errorf("Sampler() = %+v, want default", s)
	}

	_ = m.SetWrapS(id, gputypes.AddressModeClampToEdge)
	_ = m.SetWrapT(id, gputypes.AddressModeMirrorRepeat)
	_ = m.SetMagFilter(id, gputypes.FilterModeNearest)
	_ = m.SetMinFilter(id, gputypes.FilterModeLinear)

	_ = m.Update(id, newObject(t, 4, 4))
	info, _ := m.Info(id)
	want := texture.Sampler{
		WrapS:     gputypes.AddressModeClampToEdge,
		WrapT:     gputypes.AddressModeMirrorRepeat,
		MagFilter: gputypes.FilterModeNearest,
		MinFilter: gputypes.FilterModeLinear,
	}
	if info.Sampler != want {
		t.Errorf("Sampler = %+v, want %+v", info.Sampler, want)
	}

	if err := m.SetWrapS(0, gputypes.AddressModeRepeat); !errors.Is(err, ErrInvalidID) {
		t.Errorf("SetWrapS(0) error = %v, want ErrInvalidID", err)
	}
}

func TestPageAccounting_Random(t *testing.T) {
	const pages = 32
	m := newTestManager(t, 16, pages)
	r := rand.New(rand.NewPCG(1, 2))
	sizes := []int{4, 16, 32, 64}

	var ids []ID
	for step := range 500 {
		switch r.IntN(4) {
		case 0:
			if id, err := m.Create(); err == nil {
				ids = append(ids, id)
			}
		case 1:
			if len(ids) > 0 {
				n := sizes[r.IntN(len(sizes))]
				_ = m.Update(ids[r.IntN(len(ids))], newObject(t, n, n))
			}
		case 2:
			if len(ids) > 0 {
				i := r.IntN(len(ids))
				_ = m.Delete(ids[i])
				ids = append(ids[:i], ids[i+1:]...)
			}
		case 3:
			_ = m.Upload(func(uint32, []byte) error { return nil })
		}

		claimed := 0
		seen := make(map[uint32]bool)
		for i := range m.slots {
			for _, p := range m.slots[i].pages {
				if seen[p] {
					t.Fatalf("step %d: page %d owned twice", step, p)
				}
				seen[p] = true
				claimed++
			}
		}
		if claimed+m.FreePages() != pages {
			t.Fatalf("step %d: claimed %d + free %d != %d", step, claimed, m.FreePages(), pages)
		}
	}
}

func BenchmarkUpdateUpload(b *testing.B) {
	m, _ := New(Config{Slots: 64, Pages: 64, PageSize: testPageSize})
	id, _ := m.Create()
	obj, _ := texture.New(32, 32, texture.RGB565, make([]byte, 32*32*2))
	sink := func(uint32, []byte) error { return nil }
	for b.Loop() {
		_ = m.Update(id, obj)
		_ = m.Upload(sink)
	}
}

func TestQueries(t *testing.T) {
	m := newTestManager(t, 4, 4)
	id, _ := m.Create()
	if got := m.Slot(id); got != 0 {
		t.Errorf("Slot() = %d, want 0", got)
	}
	if got := m.Pages(id); got != nil {
		t.Errorf("Pages() = %v, want nil", got)
	}

	obj := newObject(t, 4, 4)
	_ = m.Update(id, obj)
	if got := m.Slot(id); got != 1 {
		t.Errorf("Slot() = %d, want 1", got)
	}
	if got := m.Size(id); got != 32 {
		t.Errorf("Size() = %d, want 32", got)
	}
	if got := m.Pages(id); len(got) != 1 || got[0] != 0 {
		t.Errorf("Pages() = %v, want [0]", got)
	}
	if got := m.Pixels(id); got != obj.Pixels() {
		t.Errorf("Pixels() = %p, want %p", got, obj.Pixels())
	}
	if got := m.PageCount(0); got != 1 {
		t.Errorf("PageCount(0) = %d, want 1", got)
	}
	if got := m.PageCount(testPageSize + 1); got != 2 {
		t.Errorf("PageCount(%d) = %d, want 2", testPageSize+1, got)
	}
}
