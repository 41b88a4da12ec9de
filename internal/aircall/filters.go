package aircall

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing filter inputs.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateFilter holds a parsed date range as whole-second Unix epochs.
// A zero field means the bound was not supplied.
type DateFilter struct {
	From int64
	To   int64
}

// Apply writes the set bounds into query as "from"/"to" parameters.
func (f DateFilter) Apply(query url.Values) {
	if f.From != 0 {
		query.Set("from", strconv.FormatInt(f.From, 10))
	}
	if f.To != 0 {
		query.Set("to", strconv.FormatInt(f.To, 10))
	}
}

// BuildDateFilter converts date-like strings into epoch-second bounds,
// truncating sub-second precision. Empty inputs leave the bound unset.
func BuildDateFilter(from, to string) (DateFilter, error) {
	var filter DateFilter

	if from != "" {
		epoch, err := parseDate(from)
		if err != nil {
			return DateFilter{}, fmt.Errorf("invalid 'from' date %q: %w", from, err)
		}
		filter.From = epoch
	}

	if to != "" {
		epoch, err := parseDate(to)
		if err != nil {
			return DateFilter{}, fmt.Errorf("invalid 'to' date %q: %w", to, err)
		}
		filter.To = epoch
	}

	return filter, nil
}

func parseDate(value string) (int64, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Unix(), nil
		}
		lastErr = err
	}
	return 0, lastErr
}

// ParseTagsFilter splits a comma-separated tag list, trimming each segment
// and dropping empty ones. Order is preserved and duplicates are kept.
func ParseTagsFilter(tags string) []string {
	var parsed []string
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			parsed = append(parsed, tag)
		}
	}
	return parsed
}
