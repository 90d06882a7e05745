package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidIDList indicates a comma separated id filter could not be parsed
var ErrInvalidIDList = errors.New("ids must be a comma separated list of positive integers")

// ParseIDList parses a query value such as "1,2,3" into ids.
// An empty value yields no ids. Duplicates are dropped, order is kept.
func ParseIDList(value string) ([]int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIDList, part)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// ParseID parses a single positive path id
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
