package types

import (
	"strings"
	"time"
)

// dateLayouts are the date forms found in backlog task frontmatter and API payloads.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a task date. Empty or unrecognised values return the zero time.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CreatedTime returns the parsed creation date.
func (t Task) CreatedTime() time.Time {
	return ParseDate(t.CreatedDate)
}

// TouchedTime returns updatedDate when present, otherwise createdDate.
func (t Task) TouchedTime() time.Time {
	if strings.TrimSpace(t.UpdatedDate) != "" {
		return ParseDate(t.UpdatedDate)
	}
	return ParseDate(t.CreatedDate)
}
