package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrURLsNotArray is returned when a document has no "urls" array.
var ErrURLsNotArray = errors.New("invalid data format - urls not an array")

// Document is the whole persisted JSON file: {"urls": [...]}.
type Document struct {
	URLs         []URLRecord
	LastUpdated  string
	RemovedCount *int
	Extra        map[string]json.RawMessage
}

// Token is the opaque version of the remote document (the blob SHA).
// The empty token means "no version known", i.e. the file is being created.
type Token string

func (t Token) IsZero() bool { return t == "" }

// Short returns a log-friendly prefix of the token.
func (t Token) Short() string {
	if len(t) > 7 {
		return string(t[:7])
	}
	return string(t)
}

var documentKeys = map[string]struct{}{
	"urls": {}, "lastUpdated": {}, "removedCount": {},
}

// EmptyDocument is what a missing, empty, or malformed file degrades to.
func EmptyDocument() Document {
	return Document{URLs: []URLRecord{}}
}

// ParseDocument decodes raw file content.
// It fails on invalid JSON and with ErrURLsNotArray when "urls" is missing or not an array.
func ParseDocument(data []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return EmptyDocument(), err
	}

	urls, ok := raw["urls"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(urls), []byte("[")) {
		return EmptyDocument(), ErrURLsNotArray
	}

	var doc Document
	if err := json.Unmarshal(urls, &doc.URLs); err != nil {
		return EmptyDocument(), fmt.Errorf("urls: %w", err)
	}
	if doc.URLs == nil {
		doc.URLs = []URLRecord{}
	}
	keep := func(k string, v json.RawMessage) {
		if doc.Extra == nil {
			doc.Extra = make(map[string]json.RawMessage)
		}
		doc.Extra[k] = v
	}
	if v, ok := raw["lastUpdated"]; ok && !isNull(v) {
		if json.Unmarshal(v, &doc.LastUpdated) != nil {
			keep("lastUpdated", v)
		}
	}
	if v, ok := raw["removedCount"]; ok && !isNull(v) {
		if n, ok := parseCount(v); ok {
			c := int(n)
			doc.RemovedCount = &c
		} else {
			keep("removedCount", v)
		}
	}
	for k, v := range raw {
		if _, known := documentKeys[k]; !known {
			keep(k, v)
		}
	}
	return doc, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	urls := d.URLs
	if urls == nil {
		urls = []URLRecord{}
	}
	fields := []field{{"urls", urls}}
	fields = appendExtra(fields, d.Extra, documentKeys)
	fields = appendKnown(fields, "lastUpdated", d.LastUpdated, d.LastUpdated != "", d.Extra)
	if d.RemovedCount != nil {
		fields = append(fields, field{"removedCount", *d.RemovedCount})
	} else {
		fields = appendKnown(fields, "removedCount", nil, false, d.Extra)
	}
	return encodeObject(fields)
}

// Encode returns the canonical serialized form: two-space indented JSON.
func (d Document) Encode() ([]byte, error) {
	compact, err := marshalRaw(d)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithURLs returns a copy of the document holding urls, bookkeeping and extra fields kept.
func (d Document) WithURLs(urls []URLRecord) Document {
	d.URLs = urls
	return d
}
