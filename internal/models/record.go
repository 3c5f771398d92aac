package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// URLRecord is one entry of the store. url is the unique key.
// Fields this package does not know about are kept in Extra and written back
// untouched. So are known fields whose stored value has an unexpected type:
// the typed field stays nil or empty and the raw value survives in Extra.
type URLRecord struct {
	URL         string
	AddedAt     string
	Downloads   *float64
	AccessCount *int64
	Extra       map[string]json.RawMessage

	// opaque holds an array element that is not an object, written back as is.
	opaque json.RawMessage
}

var recordKeys = map[string]struct{}{
	"url": {}, "added_at": {}, "downloads": {}, "access_count": {},
}

// UnmarshalJSON never rejects a syntactically valid element, so one odd
// record cannot make the whole document unreadable.
func (r *URLRecord) UnmarshalJSON(data []byte) error {
	*r = URLRecord{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if !json.Valid(data) {
			return fmt.Errorf("url record: invalid JSON")
		}
		r.opaque = append(json.RawMessage(nil), data...)
		return nil
	}

	for k, v := range raw {
		if isNull(v) {
			if _, known := recordKeys[k]; known {
				continue
			}
		}
		var ok bool
		switch k {
		case "url":
			ok = json.Unmarshal(v, &r.URL) == nil
		case "added_at":
			ok = json.Unmarshal(v, &r.AddedAt) == nil
		case "downloads":
			var n float64
			if ok = json.Unmarshal(v, &n) == nil; ok {
				r.Downloads = &n
			}
		case "access_count":
			var n int64
			if n, ok = parseCount(v); ok {
				r.AccessCount = &n
			}
		}
		if ok {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[k] = v
	}
	return nil
}

// parseCount accepts integral JSON numbers that fit in an int64, including
// forms like 5.0 or 1e3. Quoted numbers are not counts.
func parseCount(v json.RawMessage) (int64, bool) {
	if t := bytes.TrimSpace(v); len(t) == 0 || t[0] == '"' {
		return 0, false
	}
	var num json.Number
	if err := json.Unmarshal(v, &num); err != nil {
		return 0, false
	}
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func (r URLRecord) MarshalJSON() ([]byte, error) {
	if r.opaque != nil {
		return r.opaque, nil
	}
	fields := make([]field, 0, 4+len(r.Extra))
	fields = appendKnown(fields, "url", r.URL, r.URL != "" || r.Extra["url"] == nil, r.Extra)
	fields = appendKnown(fields, "added_at", r.AddedAt, r.AddedAt != "", r.Extra)
	if r.Downloads != nil {
		fields = append(fields, field{"downloads", *r.Downloads})
	} else {
		fields = appendKnown(fields, "downloads", nil, false, r.Extra)
	}
	if r.AccessCount != nil {
		fields = append(fields, field{"access_count", *r.AccessCount})
	} else {
		fields = appendKnown(fields, "access_count", nil, false, r.Extra)
	}
	fields = appendExtra(fields, r.Extra, recordKeys)
	return encodeObject(fields)
}

// AddedTime parses added_at. Missing or unparseable values sort as the epoch.
func (r URLRecord) AddedTime() time.Time {
	if t, ok := r.ParsedAddedAt(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// ParsedAddedAt reports added_at as a time, and false when it is missing
// or in no known layout.
func (r URLRecord) ParsedAddedAt() (time.Time, bool) {
	if r.AddedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range addedAtLayouts {
		if t, err := time.Parse(layout, r.AddedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var addedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// DownloadCount returns downloads, 0 when absent.
func (r URLRecord) DownloadCount() float64 {
	if r.Downloads == nil {
		return 0
	}
	return *r.Downloads
}

// WithAccessCount returns a copy carrying the given access count.
func (r URLRecord) WithAccessCount(n int64) URLRecord {
	r.AccessCount = &n
	return r
}

// ---- ordered object encoding shared with Document ----

type field struct {
	key   string
	value any
}

// appendKnown adds a known key: the typed value when set, else the raw value
// kept in extra, else nothing.
func appendKnown(fields []field, key string, value any, set bool, extra map[string]json.RawMessage) []field {
	if set {
		return append(fields, field{key, value})
	}
	if raw, ok := extra[key]; ok {
		return append(fields, field{key, raw})
	}
	return fields
}

func appendExtra(fields []field, extra map[string]json.RawMessage, known map[string]struct{}) []field {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if _, ok := known[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, field{k, extra[k]})
	}
	return fields
}

func encodeObject(fields []field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalRaw(f.key)
		if err != nil {
			return nil, err
		}
		v, err := marshalRaw(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes without HTML escaping so URLs keep their literal '&'.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
