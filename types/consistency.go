package types

import (
	"fmt"
	"strings"
)

// Consistency mirrors the CQL consistency levels. Values match the wire
// protocol codes used by gocql so the driver adapter can convert directly.
type Consistency uint16

const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	LocalOne    Consistency = 0x0A
)

var consistencyNames = map[Consistency]string{
	Any:         "ANY",
	One:         "ONE",
	Two:         "TWO",
	Three:       "THREE",
	Quorum:      "QUORUM",
	All:         "ALL",
	LocalQuorum: "LOCAL_QUORUM",
	EachQuorum:  "EACH_QUORUM",
	LocalOne:    "LOCAL_ONE",
}

func (c Consistency) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_CONS_0x%x", uint16(c))
}

// ParseConsistency converts a level name such as "LOCAL_QUORUM" to a
// Consistency. Matching is case-insensitive.
func ParseConsistency(s string) (Consistency, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for c, name := range consistencyNames {
		if name == upper {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid consistency level %q", s)
}
