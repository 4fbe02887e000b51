// Package guest loads and drives the sandboxed inference module.
//
// It owns the three hard pieces of the host↔guest protocol:
//
//   - loading: compile the guest binary once (Runtime.Load), link the
//     WASI preview1 shim with stdio passthrough only, and create a
//     fresh Instance per request (Module.Instantiate);
//   - marshaling: reserve space through the guest's exported allocator
//     and copy host buffers into its linear memory
//     (Instance.WriteBytes);
//   - invocation: call infer_from_ptrs with integer offsets/lengths and
//     decode the single integer class index (Instance.Infer).
//
// Compilation output is immutable and safe to share. An Instance is
// not: it serves exactly one inference call and is then closed.
package guest
