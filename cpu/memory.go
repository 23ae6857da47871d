package cpu

// RAM_SIZE is the default memory size, in bytes.
const RAM_SIZE = 64000

// Memory is a fixed size, byte addressable memory.
// Every access is validated; nothing is clamped or wrapped.
type Memory struct {
	data []uint8
}

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		data: make([]uint8, max(size, 0)),
	}

	return
}

// Len returns the memory size in bytes.
func (mem *Memory) Len() int {
	return len(mem.data)
}

// Check validates that count bytes starting at addr are addressable.
func (mem *Memory) Check(addr int, count int) (err error) {
	if addr < 0 || addr >= len(mem.data) {
		err = ErrAddress{Addr: addr, Size: len(mem.data)}
		return
	}

	if end := addr + count - 1; end >= len(mem.data) {
		err = ErrAddress{Addr: end, Size: len(mem.data)}
		return
	}

	return
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	err = mem.Check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// Write stores value at addr.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	err = mem.Check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// ReadWord returns the little-endian word at addr, addr+1.
func (mem *Memory) ReadWord(addr int) (value uint16, err error) {
	err = mem.Check(addr, 2)
	if err != nil {
		return
	}

	value = uint16(mem.data[addr]) | (uint16(mem.data[addr+1]) << 8)
	return
}

// WriteWord stores value little-endian at addr, addr+1.
// Neither byte is written unless both are addressable.
func (mem *Memory) WriteWord(addr int, value uint16) (err error) {
	err = mem.Check(addr, 2)
	if err != nil {
		return
	}

	mem.data[addr] = uint8(value & 0xff)
	mem.data[addr+1] = uint8(value >> 8)
	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr int, data []uint8) (err error) {
	if len(data) == 0 {
		return
	}

	err = mem.Check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Slice returns a copy of count bytes starting at addr.
func (mem *Memory) Slice(addr int, count int) (data []uint8, err error) {
	if count <= 0 {
		return
	}

	err = mem.Check(addr, count)
	if err != nil {
		return
	}

	data = make([]uint8, count)
	copy(data, mem.data[addr:addr+count])
	return
}

// Reset zeroes the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}
