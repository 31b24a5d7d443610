package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PpairNode/LibStock/internal/model"
)

// safeFloat leniently coerces a decoded JSON value to a float64. Numbers and
// numeric strings are accepted; anything else yields the default.
func safeFloat(value any, def float64) float64 {
	switch v := value.(type) {
	case nil:
		return def
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// safeInt leniently coerces a decoded JSON value to an int64.
func safeInt(value any, def int64) int64 {
	switch v := value.(type) {
	case nil:
		return def
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return def
		}
		return n
	default:
		return def
	}
}

// validateItemFields checks field-size limits on an item payload. Returns an
// error message for the client, or "" if the payload is acceptable.
func validateItemFields(name string, texts map[string]string, tags []string) string {
	if name == "" || len(name) > model.MaxNameLen {
		return fmt.Sprintf("invalid item name length (%d characters maximum)", model.MaxNameLen)
	}
	for field, value := range texts {
		if len(value) > model.MaxTextLen {
			return fmt.Sprintf("%s too long (max %d characters)", field, model.MaxTextLen)
		}
	}
	if len(tags) > model.MaxTags {
		return fmt.Sprintf("too many tags (max %d)", model.MaxTags)
	}
	for _, tag := range tags {
		if len(tag) > model.MaxNameLen {
			return fmt.Sprintf("tag too long (max %d characters)", model.MaxNameLen)
		}
	}
	return ""
}
