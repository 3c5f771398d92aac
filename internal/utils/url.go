package utils

import (
	"fmt"
	"net/url"
	"strings"
)

func ParseSecureURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL rejected")
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL has no host")
	}
	return parsed, nil
}

// JoinURL appends path segments to base, escaping each segment but keeping
// slashes inside a segment (file paths like "data/urls.json").
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		parts := strings.Split(s, "/")
		for i, p := range parts {
			parts[i] = url.PathEscape(p)
		}
		b.WriteByte('/')
		b.WriteString(strings.Join(parts, "/"))
	}
	return b.String()
}
