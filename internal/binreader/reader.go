package binreader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformedPrefix reports a 7-bit length prefix longer than five bytes.
var ErrMalformedPrefix = errors.New("malformed 7-bit length prefix")

// Reader reads typed values from a sequential byte cursor.
type Reader interface {
	ReadUint8() (uint8, error)
	ReadBool() (bool, error)
	ReadUint16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUint32() (uint32, error)
	ReadUint64() (uint64, error)
	ReadString() (string, error)
	ReadBytes(n int) ([]byte, error)
}

// StreamReader implements Reader over an io.Reader.
type StreamReader struct {
	r      io.Reader
	layout Layout
	buf    [8]byte
	offset int64
}

// NewReader wraps r using the supplied layout.
func NewReader(r io.Reader, layout Layout) *StreamReader {
	return &StreamReader{r: r, layout: layout}
}

// FromBytes reads from an in-memory buffer.
func FromBytes(data []byte, layout Layout) *StreamReader {
	return NewReader(bytes.NewReader(data), layout)
}

// Offset returns the number of bytes consumed so far.
func (s *StreamReader) Offset() int64 {
	return s.offset
}

func (s *StreamReader) fill(n int) ([]byte, error) {
	b := s.buf[:n]
	read, err := io.ReadFull(s.r, b)
	s.offset += int64(read)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, s.offset-int64(read), err)
	}
	return b, nil
}

func (s *StreamReader) ReadUint8() (uint8, error) {
	b, err := s.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool treats any nonzero byte as true.
func (s *StreamReader) ReadBool() (bool, error) {
	v, err := s.ReadUint8()
	return v != 0, err
}

func (s *StreamReader) ReadUint16() (uint16, error) {
	b, err := s.fill(2)
	if err != nil {
		return 0, err
	}
	return s.layout.order().Uint16(b), nil
}

func (s *StreamReader) ReadInt32() (int32, error) {
	v, err := s.ReadUint32()
	return int32(v), err
}

func (s *StreamReader) ReadUint32() (uint32, error) {
	b, err := s.fill(4)
	if err != nil {
		return 0, err
	}
	return s.layout.order().Uint32(b), nil
}

func (s *StreamReader) ReadUint64() (uint64, error) {
	b, err := s.fill(8)
	if err != nil {
		return 0, err
	}
	return s.layout.order().Uint64(b), nil
}

// ReadBytes reads exactly n bytes. The buffer grows with the data actually
// present, so an absurd declared length fails on EOF instead of allocating.
func (s *StreamReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("read %d bytes at offset %d: negative length: %w", n, s.offset, io.ErrUnexpectedEOF)
	}
	if n == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, s.r, int64(n))
	s.offset += copied
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, s.offset-copied, err)
	}
	return buf.Bytes(), nil
}

func (s *StreamReader) ReadString() (string, error) {
	length, err := s.readLength()
	if err != nil {
		return "", err
	}
	raw, err := s.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return normalizeString(raw), nil
}

func (s *StreamReader) readLength() (int, error) {
	switch s.layout.Prefix {
	case PrefixUint16:
		v, err := s.ReadUint16()
		return int(v), err
	default:
		return s.read7BitInt()
	}
}

func (s *StreamReader) read7BitInt() (int, error) {
	var result uint32
	for shift := 0; shift < 35; shift += 7 {
		b, err := s.ReadUint8()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(int32(result)), nil
		}
	}
	return 0, fmt.Errorf("offset %d: %w", s.offset, ErrMalformedPrefix)
}

func normalizeString(raw []byte) string {
	s := string(raw)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return norm.NFC.String(s)
}
