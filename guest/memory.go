package guest

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/visionhost/predict"
	"github.com/visionhost/predict/errors"
)

// WriteBytes copies buf into the instance's linear memory and returns
// the guest offset of the copy. Space is reserved by the guest's own
// allocator; the host trusts that reservation (an ABI contract, not
// independently verified) but performs the copy through wazero's
// bounds-checked accessor, so a lying allocator yields a reported
// error rather than corruption.
//
// Both exports are resolved before any call or copy: a guest that does
// not satisfy the contract fails with no partial writes. There are no
// retries; a failure here means a broken or incompatible guest.
func (i *Instance) WriteBytes(ctx context.Context, buf []byte) (uint32, error) {
	mem, err := i.Memory()
	if err != nil {
		return 0, err
	}
	alloc, err := i.Allocator(ctx)
	if err != nil {
		return 0, err
	}

	offset, err := alloc.Alloc(uint32(len(buf)))
	if err != nil {
		return 0, err
	}

	if err := mem.Write(offset, buf); err != nil {
		return 0, err
	}
	return offset, nil
}

// Memory resolves the guest's linear memory export.
func (i *Instance) Memory() (predict.Memory, error) {
	mem := i.mod.ExportedMemory(memoryExport)
	if mem == nil {
		return nil, errors.MissingExport(errors.PhaseMarshal, memoryExport)
	}
	return &memoryView{mem: mem}, nil
}

// Allocator resolves the guest's allocator export.
func (i *Instance) Allocator(ctx context.Context) (predict.Allocator, error) {
	fn := i.mod.ExportedFunction(allocExport)
	if fn == nil {
		return nil, errors.MissingExport(errors.PhaseMarshal, allocExport)
	}
	return &guestAllocator{ctx: ctx, fn: fn}, nil
}

// memoryView adapts wazero api.Memory to the predict.Memory interface.
type memoryView struct {
	mem api.Memory
}

func (m *memoryView) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.Protocol(errors.PhaseMarshal,
			fmt.Sprintf("memory read out of bounds: offset=%d, length=%d", offset, length))
	}
	return data, nil
}

func (m *memoryView) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.Protocol(errors.PhaseMarshal,
			fmt.Sprintf("memory write out of bounds: offset=%d, length=%d", offset, len(data)))
	}
	return nil
}

// guestAllocator adapts the guest's exported alloc function to the
// predict.Allocator interface.
type guestAllocator struct {
	ctx context.Context
	fn  api.Function
}

func (a *guestAllocator) Alloc(size uint32) (uint32, error) {
	results, err := a.fn.Call(a.ctx, uint64(size))
	if err != nil {
		return 0, errors.Allocation(int(size), err)
	}
	if len(results) != 1 {
		return 0, errors.Protocol(errors.PhaseMarshal,
			fmt.Sprintf("allocator returned %d results, want a single offset", len(results)))
	}
	return uint32(results[0]), nil
}
