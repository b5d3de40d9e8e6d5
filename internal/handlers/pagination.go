package handlers

import (
	"fmt"
	"strconv"
)

func parsePaginationParams(pageStr, limitStr string, defaultLimit int) (int, int, error) {
	page := 1
	limit := defaultLimit

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page: %s", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit: %s", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}
