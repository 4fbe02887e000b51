package guest

import (
	"context"
	"fmt"

	"github.com/visionhost/predict/errors"
)

// Infer runs the guest's inference entry point over two buffers already
// resident in linear memory. The call is synchronous: the calling
// goroutine blocks until the guest completes, traps, or the context
// deadline closes the instance.
//
// The returned value is the predicted class index, 1-indexed against
// the label file. What happens between call and return (model decode,
// image resize, forward pass) is opaque guest behavior; only the call
// boundary and the single-integer result shape are enforced here.
func (i *Instance) Infer(ctx context.Context, modelOff, modelLen, imageOff, imageLen uint32) (int32, error) {
	fn := i.mod.ExportedFunction(inferExport)
	if fn == nil {
		return 0, errors.MissingExport(errors.PhaseInvoke, inferExport)
	}

	results, err := fn.Call(ctx,
		uint64(modelOff), uint64(modelLen), uint64(imageOff), uint64(imageLen))
	if err != nil {
		return 0, errors.GuestTrap(err)
	}
	if len(results) != 1 {
		return 0, errors.Protocol(errors.PhaseInvoke,
			fmt.Sprintf("inference returned %d results, want a single class index", len(results)))
	}

	return int32(uint32(results[0])), nil
}
