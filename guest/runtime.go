package guest

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/visionhost/predict/errors"
)

// Runtime owns the wazero runtime and the WASI host module. It is safe
// for concurrent use; all per-request state lives in Instance.
type Runtime struct {
	wz     wazero.Runtime
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages caps guest linear memory in 64KB pages.
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// Stdin, Stdout, Stderr are passed through to the guest. They are
	// the only capabilities the WASI shim grants: no filesystem, no
	// network. Nil values default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger
}

// New creates a runtime with default configuration.
func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a runtime and links the WASI preview1 host
// module. Guest calls honor context deadlines: a cancelled context
// closes the in-flight instance instead of leaving it blocked.
func NewWithConfig(ctx context.Context, cfg *Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)

	r := &Runtime{
		log:    zap.NewNop(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.Stdin != nil {
			r.stdin = cfg.Stdin
		}
		if cfg.Stdout != nil {
			r.stdout = cfg.Stdout
		}
		if cfg.Stderr != nil {
			r.stderr = cfg.Stderr
		}
		if cfg.Logger != nil {
			r.log = cfg.Logger
		}
	}

	r.wz = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.wz); err != nil {
		_ = r.wz.Close(ctx)
		return nil, errors.Link("instantiate WASI shim", err)
	}

	return r, nil
}

// Load compiles a guest binary. The compiled Module is immutable and may
// be cached and shared across requests; instantiation stays per request.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Module, error) {
	start := time.Now()
	compiled, err := r.wz.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest binary", err)
	}
	r.log.Debug("guest module compiled",
		zap.Int("size", len(wasm)),
		zap.Duration("elapsed", time.Since(start)))

	return &Module{runtime: r, compiled: compiled}, nil
}

// Close releases all runtime resources, including compiled modules and
// any instances still open.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wz.Close(ctx)
}
