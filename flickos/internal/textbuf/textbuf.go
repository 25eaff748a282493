// Package textbuf builds short diagnostic lines in fixed-capacity buffers.
//
// Composition is total-or-fails: a Line either holds the exact requested
// text or the operation reports ErrOverflow and yields nothing. There is
// no truncation path.
package textbuf

import "errors"

// Cap is the fixed capacity of a Line in bytes.
const Cap = 32

// ErrOverflow reports that the composed text does not fit in a Line.
var ErrOverflow = errors.New("textbuf: overflow")

// Line is a fixed-capacity byte string. The zero value is empty.
type Line struct {
	n uint8
	b [Cap]byte
}

// Compose concatenates parts into a Line.
//
// If the combined length exceeds Cap, Compose returns ErrOverflow and a
// zero Line: no partial output is ever produced.
func Compose(parts ...string) (Line, error) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total > Cap {
		return Line{}, ErrOverflow
	}

	var l Line
	for _, p := range parts {
		copy(l.b[l.n:], p)
		l.n += uint8(len(p))
	}
	return l, nil
}

// Uint formats v in decimal.
//
// A uint32 is at most 10 digits, so this cannot overflow.
func Uint(v uint32) Line {
	var b [10]byte
	i := len(b)
	for {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}

	var l Line
	l.n = uint8(copy(l.b[:], b[i:]))
	return l
}

// AppendLine appends m's contents to l without converting through a
// string, so composing from already-built Lines allocates nothing.
//
// If the result would exceed Cap, AppendLine returns ErrOverflow and
// leaves l unchanged.
func (l *Line) AppendLine(m *Line) error {
	if int(l.n)+int(m.n) > Cap {
		return ErrOverflow
	}
	copy(l.b[l.n:], m.b[:m.n])
	l.n += m.n
	return nil
}

// Len returns the length of the line in bytes.
func (l *Line) Len() int { return int(l.n) }

// Bytes returns the line contents. The slice aliases the Line's backing
// array and is only valid while the Line is not reused.
func (l *Line) Bytes() []byte { return l.b[:l.n] }

func (l *Line) String() string { return string(l.b[:l.n]) }
