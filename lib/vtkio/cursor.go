package vtkio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	g_error "github.com/athena-regress/athcheck/lib/error"
)

// order is the byte order of every binary block in a legacy VTK file.
var order = binary.BigEndian

// maxFound is the largest number of bytes quoted back in a mismatch error.
const maxFound = 32

// Cursor is a forward-only position in an immutable byte buffer. Every
// advance is bounds-checked, so a malformed file produces an error instead of
// a slice panic.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a Cursor at the start of buf.
func NewCursor(buf []byte) *Cursor { return &Cursor{ buf: buf } }

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Done returns true if the whole buffer has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.buf) }

// HasPrefix returns true if the unread bytes start with literal. It does not
// move the cursor.
func (c *Cursor) HasPrefix(literal string) bool {
	return bytes.HasPrefix(c.buf[c.pos:], []byte(literal))
}

// Expect checks that the bytes at the current offset equal literal and
// advances past them, returning the new offset. If they don't, the cursor
// stays where it is and an ErrFormatMismatch error is returned.
func (c *Cursor) Expect(literal string) (int, error) {
	if !c.HasPrefix(literal) {
		return c.pos, g_error.Mismatch(c.pos, literal, c.peek(len(literal)))
	}
	c.pos += len(literal)
	return c.pos, nil
}

// peek returns up to n unread bytes as a string, for error messages.
func (c *Cursor) peek(n int) string {
	if n > maxFound { n = maxFound }
	end := c.pos + n
	if end > len(c.buf) { end = len(c.buf) }
	return string(c.buf[c.pos:end])
}

// LineAt returns the bytes between offset and the next line feed along with
// the offset just past that line feed. It does not move the cursor.
func (c *Cursor) LineAt(offset int) (line []byte, next int, err error) {
	return c.WordAt(offset, '\n')
}

// WordAt returns the bytes between offset and the next sep byte along with
// the offset just past sep. It does not move the cursor.
func (c *Cursor) WordAt(offset int, sep byte) (word []byte, next int, err error) {
	if offset < c.pos || offset > len(c.buf) {
		return nil, c.pos, g_error.InvalidArgument("offset %d is outside " +
			"the unread range [%d, %d]", offset, c.pos, len(c.buf))
	}
	i := bytes.IndexByte(c.buf[offset:], sep)
	if i == -1 {
		return nil, offset, &g_error.DecodeError{
			Kind: g_error.ErrTruncatedInput, Offset: offset,
			Msg: fmt.Sprintf("no %q before the end of the input", sep),
		}
	}
	return c.buf[offset: offset + i], offset + i + 1, nil
}

// Line reads up to the next line feed and advances past it.
func (c *Cursor) Line() ([]byte, error) {
	line, next, err := c.LineAt(c.pos)
	if err != nil { return nil, err }
	c.pos = next
	return line, nil
}

// Skip advances by up to n bytes, stopping at the end of the buffer, and
// returns the new offset.
func (c *Cursor) Skip(n int) int {
	c.pos += n
	if c.pos > len(c.buf) { c.pos = len(c.buf) }
	return c.pos
}

// Float32s decodes n consecutive big-endian IEEE-754 float32 values,
// widening them to float64.
func (c *Cursor) Float32s(n int) ([]float64, error) {
	if n < 0 || n > c.Len()/4 {
		need := math.MaxInt
		if n >= 0 && n <= math.MaxInt/4 { need = 4*n }
		return nil, g_error.Truncated(c.pos, need, c.Len())
	}
	need := 4*n

	out := make([]float64, n)
	for i := range out {
		bits := order.Uint32(c.buf[c.pos + 4*i:])
		out[i] = float64(math.Float32frombits(bits))
	}
	c.pos += need
	return out, nil
}
