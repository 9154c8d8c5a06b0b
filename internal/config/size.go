package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned by ParseSize for an unknown unit or number.
var ErrInvalidSize = errors.New("invalid size format, use KB, MB or GB")

var sizeUnits = []struct {
	suffix string
	factor uint64
}{
	{"KB", 1 << 10},
	{"MB", 1 << 20},
	{"GB", 1 << 30},
}

// ParseSize converts strings like "10MB" into a byte count (binary units, case-insensitive).
func ParseSize(s string) (uint64, error) {
	str := strings.ToUpper(strings.TrimSpace(s))

	for _, unit := range sizeUnits {
		if !strings.HasSuffix(str, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(str, unit.suffix))
		n, err := strconv.ParseUint(number, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}
		if n > math.MaxUint64/unit.factor {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
		}
		return n * unit.factor, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
}
