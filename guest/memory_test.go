package guest

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/visionhost/predict/errors"
	"github.com/visionhost/predict/guesttest"
)

func newInstance(t *testing.T, wasm []byte) *Instance {
	t.Helper()
	ctx := context.Background()

	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Load(ctx, wasm)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	t.Cleanup(func() { inst.Close(ctx) })
	return inst
}

func TestWriteBytesRoundTrip(t *testing.T) {
	ctx := context.Background()
	inst := newInstance(t, guesttest.Returning(1))

	payload := []byte("model weights, or close enough")
	offset, err := inst.WriteBytes(ctx, payload)
	if err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}

	mem, err := inst.Memory()
	if err != nil {
		t.Fatalf("Memory: %v", err)
	}
	got, err := mem.Read(offset, uint32(len(payload)))
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("read back %q, want %q", got, payload)
	}
}

func TestWriteBytesNoAliasing(t *testing.T) {
	ctx := context.Background()
	inst := newInstance(t, guesttest.Returning(1))

	model := bytes.Repeat([]byte{0xAB}, 1024)
	image := bytes.Repeat([]byte{0xCD}, 512)

	modelOff, err := inst.WriteBytes(ctx, model)
	if err != nil {
		t.Fatalf("WriteBytes(model): %v", err)
	}
	imageOff, err := inst.WriteBytes(ctx, image)
	if err != nil {
		t.Fatalf("WriteBytes(image): %v", err)
	}
	if modelOff == imageOff {
		t.Fatalf("model and image share offset %d", modelOff)
	}

	mem, err := inst.Memory()
	if err != nil {
		t.Fatalf("Memory: %v", err)
	}
	gotModel, err := mem.Read(modelOff, uint32(len(model)))
	if err != nil {
		t.Fatalf("Read(model): %v", err)
	}
	gotImage, err := mem.Read(imageOff, uint32(len(image)))
	if err != nil {
		t.Fatalf("Read(image): %v", err)
	}
	if !bytes.Equal(gotModel, model) {
		t.Error("model buffer corrupted by image write")
	}
	if !bytes.Equal(gotImage, image) {
		t.Error("image buffer corrupted")
	}
}

func TestWriteBytesMissingAlloc(t *testing.T) {
	ctx := context.Background()
	inst := newInstance(t, guesttest.Guest{OmitAlloc: true}.Build())

	_, err := inst.WriteBytes(ctx, []byte("data"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMarshal, Kind: errors.KindMissingExport}) {
		t.Fatalf("err = %v, want missing_export in marshal phase", err)
	}
}

func TestWriteBytesMissingMemory(t *testing.T) {
	ctx := context.Background()
	inst := newInstance(t, guesttest.Guest{OmitMemory: true}.Build())

	// The memory export is checked before the allocator is called, so a
	// broken guest fails with no partial writes.
	_, err := inst.WriteBytes(ctx, []byte("data"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMarshal, Kind: errors.KindMissingExport}) {
		t.Fatalf("err = %v, want missing_export in marshal phase", err)
	}

	var typed *errors.Error
	if !stderrors.As(err, &typed) || typed.Export != "memory" {
		t.Errorf("err = %v, want it to name the memory export", err)
	}
}

func TestWriteBytesAllocatorArity(t *testing.T) {
	ctx := context.Background()
	inst := newInstance(t, guesttest.Guest{AllocReturnsNothing: true}.Build())

	_, err := inst.WriteBytes(ctx, []byte("data"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMarshal, Kind: errors.KindProtocol}) {
		t.Fatalf("err = %v, want protocol violation", err)
	}
}

func TestInstanceIndependence(t *testing.T) {
	ctx := context.Background()

	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, guesttest.Returning(1))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer a.Close(ctx)
	b, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer b.Close(ctx)

	// Identical allocation sequences yield identical offsets, but the
	// offsets address disjoint memories: what was written into a must
	// not be visible through b.
	offA, err := a.WriteBytes(ctx, []byte("instance A"))
	if err != nil {
		t.Fatalf("WriteBytes(a): %v", err)
	}
	offB, err := b.WriteBytes(ctx, []byte("instance B"))
	if err != nil {
		t.Fatalf("WriteBytes(b): %v", err)
	}
	if offA != offB {
		t.Fatalf("offsets diverged (%d vs %d); expected identical bump sequence", offA, offB)
	}

	memB, err := b.Memory()
	if err != nil {
		t.Fatalf("Memory(b): %v", err)
	}
	got, err := memB.Read(offA, uint32(len("instance A")))
	if err != nil {
		t.Fatalf("Read(b): %v", err)
	}
	if bytes.Equal(got, []byte("instance A")) {
		t.Error("instance B observed bytes written into instance A")
	}
}

func TestWriteBytesOutOfBounds(t *testing.T) {
	ctx := context.Background()
	// One 64KB page and a heap base near its end: the allocator hands
	// out an offset the copy cannot fit behind.
	inst := newInstance(t, guesttest.Guest{Pages: 1, HeapBase: 65530}.Build())

	_, err := inst.WriteBytes(ctx, bytes.Repeat([]byte{1}, 64))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseMarshal, Kind: errors.KindProtocol}) {
		t.Fatalf("err = %v, want bounds-checked protocol violation", err)
	}
}
