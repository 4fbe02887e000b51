package guest

import (
	"context"
	"time"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/visionhost/predict/errors"
)

// Module is a compiled guest binary, ready for instantiation. Safe for
// concurrent use: Instantiate may be called from many goroutines.
type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// Instantiate creates a fresh, isolated execution context. Import
// resolution happens here, as does the guest's _start routine (a no-op
// by contract). Instances are anonymous so concurrent requests never
// collide on a module name.
//
// The returned Instance must serve at most one inference call and then
// be closed. It is never shared between goroutines.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdin(m.runtime.stdin).
		WithStdout(m.runtime.stdout).
		WithStderr(m.runtime.stderr)

	start := time.Now()
	mod, err := m.runtime.wz.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Link("instantiate guest module", err)
	}
	m.runtime.log.Debug("guest instantiated",
		zap.Duration("elapsed", time.Since(start)))

	return &Instance{mod: mod}, nil
}
