package qcengine

// QInt is a named group of consecutive qubits handed out by an Allocator.
type QInt struct {
	Name   string
	Offset int
	Width  int
}

// Allocator assigns sequential index ranges to qint groups. One allocator
// belongs to one interpreter and is reset with the register; it is not safe to
// share between concurrently executing runs.
type Allocator struct {
	next int
}

// Alloc reserves width qubits and returns the first index of the range.
func (a *Allocator) Alloc(width int) int {
	offset := a.next
	a.next += width
	return offset
}

// Next returns the first index the next Alloc would hand out.
func (a *Allocator) Next() int { return a.next }

// Reset releases every range.
func (a *Allocator) Reset() { a.next = 0 }
