package lexer

import (
	"errors"
	"math"
	"strconv"
)

var errNumberOutOfRange = errors.New("number out of range")

// parseFloat parses a validated JSON number literal into a float64,
// reporting an error if it overflows to ±Inf (spec.md §4.1:
// "overflow to ±Inf yields NUMBER_OUT_OF_RANGE"). NaN is never produced
// because the grammar that reaches here has already been validated.
func parseFloat(lit string) (float64, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// strconv reports ErrRange itself on overflow and still returns
		// ±Inf; treat that the same as our own overflow check below.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, errNumberOutOfRange
		}

		return 0, err
	}

	if math.IsInf(f, 0) {
		return 0, errNumberOutOfRange
	}

	return f, nil
}
