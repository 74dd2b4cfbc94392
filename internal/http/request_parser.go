package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON reads and unmarshals the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// parseUserID extracts the required user_id query parameter.
func parseUserID(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if v == "" {
		return 0, errors.New("user_id query parameter is required")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user_id must be a positive integer")
	}
	return id, nil
}

// parseDays extracts the days query parameter, defaulting when absent.
func parseDays(r *http.Request, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get("days"))
	if v == "" {
		return def
	}
	days, err := strconv.Atoi(v)
	if err != nil || days <= 0 {
		return def
	}
	return days
}
