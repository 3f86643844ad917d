package stream

import (
	"errors"
	"strconv"
	"strings"
)

var errRangeNotSatisfiable = errors.New("range not satisfiable")

// parseByteRange parses a single-range "bytes=<start>-<end>" header against a
// resource of the given size. The returned span is inclusive. An absent end
// means the rest of the resource; an end past the last byte is clamped to it.
// Anything unparsable, negative, or outside the resource fails.
func parseByteRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, errRangeNotSatisfiable
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, errRangeNotSatisfiable
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, errRangeNotSatisfiable
	}

	if strings.TrimSpace(endStr) == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
		if err != nil {
			return 0, 0, errRangeNotSatisfiable
		}
	}
	if end > size-1 {
		end = size - 1
	}

	if start >= size || start > end {
		return 0, 0, errRangeNotSatisfiable
	}
	return start, end, nil
}
