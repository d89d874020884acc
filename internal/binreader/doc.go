// Package binreader provides the byte-cursor readers and writers consumed by
// the econ and hostbans decoders.
//
// A Layout pins the byte order and string length prefix convention of one
// protocol, so decoders only ask for typed values and never deal with
// endianness themselves. Readers are strictly sequential: there is no Seek.
// Every short read surfaces as io.ErrUnexpectedEOF. Decoded strings are
// NFC-normalized with invalid UTF-8 replaced by U+FFFD.
package binreader
