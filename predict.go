package predict

// Memory is the guest's linear memory viewed from the host. Offsets are
// guest addresses, meaningful only for the instance that produced them.
// Implementations must bounds-check every access and report a failure
// instead of touching host memory out of range.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator reserves writable space inside guest linear memory. The
// returned offset is valid only for the instance whose allocator
// produced it. The reservation is an ABI contract with the guest and is
// not independently verified by the host.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
}
