package guest

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// Exports the guest must provide. The names are an ABI contract shared
// with the guest build and must not drift.
const (
	allocExport  = "alloc"
	memoryExport = "memory"
	inferExport  = "infer_from_ptrs"
)

// Instance is one live, isolated execution context created from a
// compiled Module. It owns a private linear memory region. NOT safe for
// concurrent use: one goroutine, one inference call, then Close.
type Instance struct {
	mod api.Module
}

// Close discards the instance and releases its linear memory. Offsets
// obtained from this instance are meaningless afterwards.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
