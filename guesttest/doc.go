// Package guesttest emits minimal guest binaries for tests.
//
// A stub guest satisfies the inference ABI (alloc, memory,
// infer_from_ptrs, _start) without any tensor logic: its allocator is a
// bump allocator over a private heap pointer, and its inference entry
// point either returns a fixed class index, echoes the first byte of
// the image buffer, or traps. Individual exports can be omitted to
// exercise the host's contract checks.
//
// Binaries are assembled directly in the WebAssembly binary format so
// tests need no toolchain and no fixture files.
package guesttest
