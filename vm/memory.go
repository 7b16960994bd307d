package vm

// DenseLimit is the number of low addresses held in a contiguous array.
// Cells at or above it live in a sparse overflow map, so a write to a huge
// address costs one map entry instead of a huge allocation.
const DenseLimit = 1 << 20

// Memory is the backing store of a machine: a logically unbounded array of
// int64 cells. Unwritten cells read as zero.
type Memory struct {
	cells []int64
	far   map[int]int64 // cells at or above DenseLimit
}

// NewMemory returns a memory initialized with a copy of program.
func NewMemory(program []int64) *Memory {
	dense := min(len(program), DenseLimit)
	m := &Memory{cells: make([]int64, dense)}
	copy(m.cells, program[:dense])
	for addr, v := range program[dense:] {
		m.setFar(dense+addr, v)
	}
	return m
}

// Get returns the value at addr. Unwritten addresses, and negative ones,
// read as zero.
func (m *Memory) Get(addr int) int64 {
	switch {
	case addr < 0:
		return 0
	case addr < len(m.cells):
		return m.cells[addr]
	case addr >= DenseLimit:
		return m.far[addr]
	}
	return 0
}

// Set stores v at addr. Below DenseLimit the backing array is zero-filled up
// to and including addr first. Negative addresses are rejected by the
// interpreter before they get here; Set ignores them.
func (m *Memory) Set(addr int, v int64) {
	switch {
	case addr < 0:
		return
	case addr >= DenseLimit:
		m.setFar(addr, v)
		return
	case addr >= len(m.cells):
		m.grow(addr + 1)
	}
	m.cells[addr] = v
}

func (m *Memory) setFar(addr int, v int64) {
	if v == 0 {
		delete(m.far, addr)
		return
	}
	if m.far == nil {
		m.far = make(map[int]int64)
	}
	m.far[addr] = v
}

// Len returns the size of the dense backing array. Addresses at or past Len
// are still valid; they simply have not been written yet, or are held in the
// overflow map.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Far returns the number of nonzero cells held above DenseLimit.
func (m *Memory) Far() int {
	return len(m.far)
}

// Clone returns a deep copy.
func (m *Memory) Clone() *Memory {
	c := &Memory{cells: make([]int64, len(m.cells))}
	copy(c.cells, m.cells)
	for addr, v := range m.far {
		c.setFar(addr, v)
	}
	return c
}

// Snapshot returns a copy of the dense backing array. Cells above
// DenseLimit are not included.
func (m *Memory) Snapshot() []int64 {
	out := make([]int64, len(m.cells))
	copy(out, m.cells)
	return out
}

func (m *Memory) grow(n int) {
	if n <= cap(m.cells) {
		m.cells = m.cells[:n]
		return
	}
	// Double to amortize scratch writes that walk upward one cell at a time.
	newCap := min(max(cap(m.cells)*2, n), DenseLimit)
	cells := make([]int64, n, newCap)
	copy(cells, m.cells)
	m.cells = cells
}
