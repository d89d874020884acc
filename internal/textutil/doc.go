// Package textutil provides filename sanitization and small text helpers used
// when mapping decompiled type names and upstream file names onto disk.
package textutil
