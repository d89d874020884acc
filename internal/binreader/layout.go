package binreader

import "encoding/binary"

// Prefix selects how string lengths are encoded.
type Prefix int

const (
	// Prefix7Bit is the 7-bit variable length integer used by .NET BinaryWriter.
	Prefix7Bit Prefix = iota
	// PrefixUint16 is a fixed two byte length in the layout's byte order.
	PrefixUint16
)

func (p Prefix) String() string {
	switch p {
	case Prefix7Bit:
		return "7bit"
	case PrefixUint16:
		return "uint16"
	default:
		return "unknown"
	}
}

// Layout fixes byte order and string prefix convention for one protocol.
type Layout struct {
	Order  binary.ByteOrder
	Prefix Prefix
}

var (
	// DotNet matches System.IO.BinaryReader: little-endian, 7-bit prefixed strings.
	DotNet = Layout{Order: binary.LittleEndian, Prefix: Prefix7Bit}
	// NetPak matches the host ban filter protocol: little-endian, uint16 prefixed strings.
	NetPak = Layout{Order: binary.LittleEndian, Prefix: PrefixUint16}
)

func (l Layout) order() binary.ByteOrder {
	if l.Order == nil {
		return binary.LittleEndian
	}
	return l.Order
}
