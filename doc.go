// Package predict drives a sandboxed WebAssembly guest through
// image-classification inference without sharing address space with it.
//
// The host and guest have no shared pointers and no shared type system.
// Every buffer crossing the boundary is explicitly allocated inside the
// guest's linear memory, copied byte for byte, and the instance discarded
// after a single inference call.
//
// # Architecture Overview
//
// The repository is organized into several packages with distinct
// responsibilities:
//
//	predict/           Root package with Memory and Allocator interfaces
//	├── guest/         Module loading, instance lifecycle, memory marshaling
//	│                  and the inference call boundary (wazero)
//	├── service/       Per-request orchestration and the HTTP surface
//	├── store/         Read-only model and label file stores
//	├── fetch/         Image download over HTTP
//	├── errors/        Structured error types for debugging
//	├── guesttest/     Stub guest binaries for tests
//	└── cmd/predictd/  Server entry point and interactive console
//
// # Quick Start
//
// Load a guest and run one prediction:
//
//	rt, err := guest.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	modelOff, _ := inst.WriteBytes(ctx, modelBytes)
//	imageOff, _ := inst.WriteBytes(ctx, imageBytes)
//	class, _ := inst.Infer(ctx, modelOff, uint32(len(modelBytes)), imageOff, uint32(len(imageBytes)))
//
// # Guest ABI
//
// The guest is an opaque, precompiled WASI binary that must export:
//
//	alloc(length: u32) -> offset: u32    reserve writable linear memory
//	memory                               the linear memory itself
//	infer_from_ptrs(model_off: u32, model_len: u32,
//	                img_off: u32, img_len: u32) -> class_index: i32
//	_start()                             startup convention, must be a no-op
//
// The returned class index is 1-indexed against a line-oriented label
// file. The host trusts alloc to have reserved enough space before
// copying; all copies go through wazero's bounds-checked memory accessors
// so a misbehaving guest produces a reported error, not host corruption.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance is NOT
// thread-safe: at most one inference call may be in flight against an
// instance, and an instance is discarded after one call. The service
// layer creates a fresh instance per request and never pools them.
package predict
