package binreader

import "bytes"

// Writer mirrors Reader for building streams in the same layout.
type Writer struct {
	buf    bytes.Buffer
	layout Layout
	tmp    [8]byte
}

// NewWriter returns an empty writer for layout.
func NewWriter(layout Layout) *Writer {
	return &Writer{layout: layout}
}

// Bytes returns the encoded stream.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

func (w *Writer) WriteUint16(v uint16) {
	w.layout.order().PutUint16(w.tmp[:2], v)
	w.buf.Write(w.tmp[:2])
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteUint32(v uint32) {
	w.layout.order().PutUint32(w.tmp[:4], v)
	w.buf.Write(w.tmp[:4])
}

func (w *Writer) WriteUint64(v uint64) {
	w.layout.order().PutUint64(w.tmp[:8], v)
	w.buf.Write(w.tmp[:8])
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteString writes s with the layout's length prefix. Strings longer than
// a uint16 prefix allows are truncated under PrefixUint16.
func (w *Writer) WriteString(s string) {
	data := []byte(s)
	switch w.layout.Prefix {
	case PrefixUint16:
		if len(data) > 0xffff {
			data = data[:0xffff]
		}
		w.WriteUint16(uint16(len(data)))
	default:
		v := uint32(len(data))
		for v >= 0x80 {
			w.buf.WriteByte(byte(v) | 0x80)
			v >>= 7
		}
		w.buf.WriteByte(byte(v))
	}
	w.buf.Write(data)
}
