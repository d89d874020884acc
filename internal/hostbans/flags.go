package hostbans

import (
	"fmt"
	"math/bits"
	"strings"
)

// Flags is a bitmask of ban reasons.
type Flags uint32

const (
	FlagMonetization Flags = 1 << iota
	FlagImpersonation
	FlagOffensive
	FlagCheating
	FlagSpam
	FlagMisleading
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagMonetization, "Monetization"},
	{FlagImpersonation, "Impersonation"},
	{FlagOffensive, "Offensive"},
	{FlagCheating, "Cheating"},
	{FlagSpam, "Spam"},
	{FlagMisleading, "Misleading"},
}

const knownFlags = FlagMonetization | FlagImpersonation | FlagOffensive | FlagCheating | FlagSpam | FlagMisleading

// Names lists the set reasons in bit order. Unknown bits are reported as hex.
func (f Flags) Names() []string {
	out := make([]string, 0, bits.OnesCount32(uint32(f)))
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}
	if unknown := f &^ knownFlags; unknown != 0 {
		out = append(out, fmt.Sprintf("0x%x", uint32(unknown)))
	}
	return out
}

func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	return strings.Join(f.Names(), ", ")
}

func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
