package domain

import "os"

// PathStack is a reusable path buffer for a recursive walk. Push appends a
// segment; Pop restores the buffer to exactly its length before that Push.
// A PathStack belongs to a single walk and must not be shared.
type PathStack struct {
	buf  []byte
	lens []int
}

// NewPathStack returns a stack rooted at root.
func NewPathStack(root string) *PathStack {
	buf := make([]byte, 0, len(root)+256)
	return &PathStack{buf: append(buf, root...)}
}

// Push appends a path separator and name.
func (p *PathStack) Push(name string) {
	p.lens = append(p.lens, len(p.buf))
	if len(p.buf) == 0 || p.buf[len(p.buf)-1] != os.PathSeparator {
		p.buf = append(p.buf, os.PathSeparator)
	}
	p.buf = append(p.buf, name...)
}

// Pop removes the most recently pushed segment.
func (p *PathStack) Pop() {
	n := len(p.lens)
	if n == 0 {
		panic("domain: PathStack.Pop past root")
	}
	p.buf = p.buf[:p.lens[n-1]]
	p.lens = p.lens[:n-1]
}

// Depth returns the number of pushed segments.
func (p *PathStack) Depth() int {
	return len(p.lens)
}

// Len returns the current byte length of the path.
func (p *PathStack) Len() int {
	return len(p.buf)
}

// String returns the current path.
func (p *PathStack) String() string {
	return string(p.buf)
}
