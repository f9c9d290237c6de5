package parcel

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"idlgen/errors"
)

// MaxContainerLength bounds the element count of any array, list or map.
const MaxContainerLength = 102400

const slot = 4

type Parcel struct {
	data    []byte
	readPos int
	objects []RemoteObject
	err     error
}

// New returns an empty parcel ready for writing.
func New() *Parcel {
	return obtain()
}

// FromBytes returns a parcel that reads the given encoding. The slices are
// copied, so the caller may reuse them.
func FromBytes(data []byte, objects []RemoteObject) *Parcel {
	p := obtain()
	p.data = append(p.data, data...)
	p.objects = append(p.objects, objects...)
	return p
}

// Bytes returns the encoded content. The slice aliases the parcel's buffer.
func (p *Parcel) Bytes() []byte {
	return p.data
}

// Objects returns the remote objects referenced by the encoding.
func (p *Parcel) Objects() []RemoteObject {
	return p.objects
}

// Len is the number of encoded bytes.
func (p *Parcel) Len() int {
	return len(p.data)
}

// Remaining is the number of bytes not yet read.
func (p *Parcel) Remaining() int {
	return len(p.data) - p.readPos
}

// Err returns the first error recorded by a read or write.
func (p *Parcel) Err() error {
	return p.err
}

// Rewind moves the read position back to the start and keeps the content.
func (p *Parcel) Rewind() {
	p.readPos = 0
}

// Reset drops content, objects and any recorded error.
func (p *Parcel) Reset() {
	p.data = p.data[:0]
	p.readPos = 0
	clear(p.objects)
	p.objects = p.objects[:0]
	p.err = nil
}

func (p *Parcel) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parcel) grow(n int) []byte {
	start := len(p.data)
	p.data = append(p.data, make([]byte, n)...)
	return p.data[start:]
}

func (p *Parcel) take(what string, n int) []byte {
	if p.err != nil {
		return nil
	}
	if n > p.Remaining() {
		p.fail(errors.ShortRead(what, n, p.Remaining()))
		return nil
	}
	b := p.data[p.readPos : p.readPos+n]
	p.readPos += n
	return b
}

func padding(n int) int {
	return (slot - n%slot) % slot
}

func (p *Parcel) WriteInt32(v int32) {
	if p.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(p.grow(4), uint32(v))
}

func (p *Parcel) WriteInt64(v int64) {
	if p.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(p.grow(8), uint64(v))
}

func (p *Parcel) WriteBool(v bool) {
	if v {
		p.WriteInt32(1)
	} else {
		p.WriteInt32(0)
	}
}

func (p *Parcel) WriteChar(v rune)   { p.WriteInt32(v) }
func (p *Parcel) WriteInt8(v int8)   { p.WriteInt32(int32(v)) }
func (p *Parcel) WriteInt16(v int16) { p.WriteInt32(int32(v)) }

func (p *Parcel) WriteFloat32(v float32) {
	if p.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(p.grow(4), math.Float32bits(v))
}

func (p *Parcel) WriteFloat64(v float64) {
	if p.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(p.grow(8), math.Float64bits(v))
}

// WriteString16 encodes s as UTF-16: unit count, units, a NUL unit and
// padding to the next slot boundary.
func (p *Parcel) WriteString16(s string) {
	units := utf16.Encode([]rune(s))
	if len(units) > math.MaxInt32 {
		p.fail(errors.Overflow(errors.PhaseEncode, []string{"string16"}, len(units), "int32 length"))
		return
	}
	p.WriteInt32(int32(len(units)))
	if p.err != nil {
		return
	}
	size := (len(units) + 1) * 2
	buf := p.grow(size + padding(size))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
}

// WriteInterfaceToken writes the descriptor that opens every request.
func (p *Parcel) WriteInterfaceToken(descriptor string) {
	p.WriteString16(descriptor)
}

// WriteLength writes a container element count.
func (p *Parcel) WriteLength(n int) {
	if n < 0 || n > MaxContainerLength {
		p.fail(errors.Overflow(errors.PhaseEncode, []string{"length"}, n, "MaxContainerLength"))
		return
	}
	p.WriteInt32(int32(n))
}

func (p *Parcel) ReadInt32() int32 {
	b := p.take("int32", 4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (p *Parcel) ReadInt64() int64 {
	b := p.take("int64", 8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (p *Parcel) ReadBool() bool   { return p.ReadInt32() != 0 }
func (p *Parcel) ReadChar() rune   { return p.ReadInt32() }
func (p *Parcel) ReadInt8() int8   { return int8(p.ReadInt32()) }
func (p *Parcel) ReadInt16() int16 { return int16(p.ReadInt32()) }

func (p *Parcel) ReadFloat32() float32 {
	b := p.take("float32", 4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (p *Parcel) ReadFloat64() float64 {
	b := p.take("float64", 8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// ReadString16 decodes a string written by WriteString16. A negative count
// is the null string and decodes as "".
func (p *Parcel) ReadString16() string {
	n := p.ReadInt32()
	if p.err != nil || n < 0 {
		return ""
	}
	size := (int(n) + 1) * 2
	b := p.take("string16", size+padding(size))
	if b == nil {
		return ""
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units))
}

// ReadInterfaceToken reads the descriptor that opens every request.
func (p *Parcel) ReadInterfaceToken() string {
	return p.ReadString16()
}

// ReadLength reads a container element count. Negative counts, counts above
// MaxContainerLength and counts that cannot fit in the remaining bytes are
// rejected and yield 0.
func (p *Parcel) ReadLength() int {
	n := p.ReadInt32()
	switch {
	case p.err != nil:
		return 0
	case n < 0:
		p.fail(errors.InvalidData(errors.PhaseDecode, []string{"length"}, "negative container length"))
		return 0
	case n > MaxContainerLength:
		p.fail(errors.Overflow(errors.PhaseDecode, []string{"length"}, n, "MaxContainerLength"))
		return 0
	case int(n) > p.Remaining()/slot:
		p.fail(errors.ShortRead("length", int(n)*slot, p.Remaining()))
		return 0
	}
	return int(n)
}
