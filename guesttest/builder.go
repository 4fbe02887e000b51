package guesttest

// Guest configures a stub inference guest.
type Guest struct {
	// ReturnIndex is the class index infer_from_ptrs returns.
	ReturnIndex int32

	// EchoImageByte makes infer_from_ptrs return the first byte of the
	// image buffer instead of ReturnIndex. Useful for pairing requests
	// with results under concurrency.
	EchoImageByte bool

	// Trap makes infer_from_ptrs execute unreachable.
	Trap bool

	// Pages is the initial linear memory size in 64KB pages (default 4).
	Pages uint32

	// HeapBase is the first offset the bump allocator hands out
	// (default 16).
	HeapBase uint32

	// AllocReturnsNothing gives alloc the signature (i32) -> () so the
	// host sees a return-shape violation instead of an offset.
	AllocReturnsNothing bool

	// Omit* drop the corresponding export so tests can break the ABI
	// contract on purpose. The definitions stay; only the export entry
	// is removed.
	OmitMemory bool
	OmitAlloc  bool
	OmitInfer  bool
	OmitStart  bool
}

// Returning builds a well-formed stub guest whose inference entry point
// always returns index.
func Returning(index int32) []byte {
	return Guest{ReturnIndex: index}.Build()
}

// Function indices in the emitted module. There are no imports, so
// these are also the module-level indices.
const (
	funcAlloc = 0
	funcInfer = 1
	funcStart = 2
)

// Build assembles the guest as a WebAssembly binary.
func (g Guest) Build() []byte {
	pages := g.Pages
	if pages == 0 {
		pages = 4
	}
	heapBase := g.HeapBase
	if heapBase == 0 {
		heapBase = 16
	}

	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// Type section: (i32)->i32, (i32 i32 i32 i32)->i32, ()->()
	mod = section(mod, 1, func(b []byte) []byte {
		b = appendUint(b, 3)
		if g.AllocReturnsNothing {
			b = append(b, 0x60, 0x01, 0x7f, 0x00)
		} else {
			b = append(b, 0x60, 0x01, 0x7f, 0x01, 0x7f)
		}
		b = append(b, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f)
		b = append(b, 0x60, 0x00, 0x00)
		return b
	})

	// Function section: one func per type, in type order
	mod = section(mod, 3, func(b []byte) []byte {
		return append(appendUint(b, 3), 0, 1, 2)
	})

	// Memory section
	mod = section(mod, 5, func(b []byte) []byte {
		b = appendUint(b, 1)
		b = append(b, 0x00) // min only, no max
		return appendUint(b, pages)
	})

	// Global section: the bump allocator's heap pointer
	mod = section(mod, 6, func(b []byte) []byte {
		b = appendUint(b, 1)
		b = append(b, 0x7f, 0x01) // mut i32
		b = append(b, 0x41)       // i32.const
		b = appendSint(b, int32(heapBase))
		return append(b, 0x0b)
	})

	// Export section
	mod = section(mod, 7, func(b []byte) []byte {
		type export struct {
			name string
			kind byte
			idx  uint32
		}
		var exports []export
		if !g.OmitMemory {
			exports = append(exports, export{"memory", 0x02, 0})
		}
		if !g.OmitAlloc {
			exports = append(exports, export{"alloc", 0x00, funcAlloc})
		}
		if !g.OmitInfer {
			exports = append(exports, export{"infer_from_ptrs", 0x00, funcInfer})
		}
		if !g.OmitStart {
			exports = append(exports, export{"_start", 0x00, funcStart})
		}
		b = appendUint(b, uint32(len(exports)))
		for _, e := range exports {
			b = appendUint(b, uint32(len(e.name)))
			b = append(b, e.name...)
			b = append(b, e.kind)
			b = appendUint(b, e.idx)
		}
		return b
	})

	// Code section
	mod = section(mod, 10, func(b []byte) []byte {
		b = appendUint(b, 3)
		b = body(b, g.allocBody())
		b = body(b, g.inferBody())
		return body(b, []byte{0x0b})
	})

	return mod
}

// allocBody bumps the heap pointer by the requested length and returns
// the previous value. No alignment, no free: instances are single-use.
func (g Guest) allocBody() []byte {
	if g.AllocReturnsNothing {
		return []byte{
			0x23, 0x00, // global.get 0
			0x20, 0x00, // local.get 0
			0x6a,       // i32.add
			0x24, 0x00, // global.set 0
			0x0b,
		}
	}
	return []byte{
		0x23, 0x00, // global.get 0
		0x23, 0x00, // global.get 0
		0x20, 0x00, // local.get 0
		0x6a,       // i32.add
		0x24, 0x00, // global.set 0
		0x0b,
	}
}

func (g Guest) inferBody() []byte {
	switch {
	case g.Trap:
		return []byte{0x00, 0x0b} // unreachable
	case g.EchoImageByte:
		return []byte{
			0x20, 0x02, // local.get 2 (image offset)
			0x2d, 0x00, 0x00, // i32.load8_u
			0x0b,
		}
	default:
		b := []byte{0x41} // i32.const
		b = appendSint(b, g.ReturnIndex)
		return append(b, 0x0b)
	}
}

// section appends a sized section with the given id.
func section(mod []byte, id byte, fill func([]byte) []byte) []byte {
	contents := fill(nil)
	mod = append(mod, id)
	mod = appendUint(mod, uint32(len(contents)))
	return append(mod, contents...)
}

// body appends a code entry: declared size, zero locals, instructions.
func body(b, instrs []byte) []byte {
	b = appendUint(b, uint32(len(instrs))+1)
	b = append(b, 0x00) // no locals
	return append(b, instrs...)
}

// appendUint appends an unsigned LEB128 value.
func appendUint(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b = append(b, c|0x80)
			continue
		}
		return append(b, c)
	}
}

// appendSint appends a signed LEB128 value.
func appendSint(b []byte, v int32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}
