package guest

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/visionhost/predict/errors"
	"github.com/visionhost/predict/guesttest"
)

func TestLoadRejectsMalformedBinary(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rt.Close(ctx)

	_, err = rt.Load(ctx, []byte("definitely not wasm"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidBinary}) {
		t.Fatalf("err = %v, want invalid_binary in load phase", err)
	}
}

func TestLoadTruncatedBinary(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer rt.Close(ctx)

	wasm := guesttest.Returning(1)
	if _, err := rt.Load(ctx, wasm[:len(wasm)/2]); err == nil {
		t.Fatal("expected error for truncated binary, got nil")
	}
}

func TestConcurrentInstantiation(t *testing.T) {
	ctx := context.Background()
	rt, err := NewWithConfig(ctx, &Config{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, guesttest.Guest{EchoImageByte: true}.Build())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// One compiled module, many anonymous instances in flight at once.
	// Each must see only its own writes.
	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			inst, err := mod.Instantiate(ctx)
			if err != nil {
				errs <- err
				return
			}
			defer inst.Close(ctx)

			want := int32(n%200 + 1)
			modelOff, err := inst.WriteBytes(ctx, []byte{0xFF, 0xFF})
			if err != nil {
				errs <- err
				return
			}
			imageOff, err := inst.WriteBytes(ctx, []byte{byte(want)})
			if err != nil {
				errs <- err
				return
			}

			got, err := inst.Infer(ctx, modelOff, 2, imageOff, 1)
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- stderrors.New("cross-request interference: wrong class index")
			}
		}(n)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRuntimeCloseReleasesInstances(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mod, err := rt.Load(ctx, guesttest.Returning(1))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := mod.Instantiate(ctx); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	if err := rt.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
