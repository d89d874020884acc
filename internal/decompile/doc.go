// Package decompile turns managed assemblies into one C# file per namespace
// and type group, plus a README index per namespace directory.
//
// The decompiler itself is an external collaborator behind the Decompiler
// interface; ILSpy drives the ilspycmd command line tool. This package picks
// the group keys, runs groups in parallel with a bounded worker count, and
// wraps unexpected failures with the module name and group key. Context
// cancellation is returned untouched.
package decompile
