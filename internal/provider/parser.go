package provider

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrMalformedSource is returned when a source string yields nothing usable.
	ErrMalformedSource = errors.New("malformed layer source")

	// ErrMissingKey is returned when a required source key is absent.
	ErrMissingKey = errors.New("missing source key")
)

// PathKey is the Params key the path parser stores the file path or URL under.
const PathKey = "path"

// SourceParser tokenizes the source string of one provider family.
type SourceParser interface {
	Parse(source string) (Params, error)
}

// QueryParser reads the `k=v&k=v` sources of the wms provider (WMS, WMTS and
// XYZ layers). Values are percent-decoded.
type QueryParser struct{}

func (QueryParser) Parse(source string) (Params, error) {
	var p Params
	for _, part := range strings.Split(source, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if key == "" {
			continue
		}
		p.Add(key, value)
	}
	if p.Len() == 0 {
		return p, fmt.Errorf("%w: no key/value pairs", ErrMalformedSource)
	}
	return p, nil
}

// PathParser reads the `path|option=value|...` sources of the ogr provider.
// The path is stored under PathKey.
type PathParser struct{}

func (PathParser) Parse(source string) (Params, error) {
	var p Params
	parts := strings.Split(source, "|")
	path := strings.TrimSpace(parts[0])
	if path == "" {
		return p, fmt.Errorf("%w: empty path", ErrMalformedSource)
	}
	p.Add(PathKey, path)
	for _, opt := range parts[1:] {
		key, value, ok := strings.Cut(opt, "=")
		if !ok || key == "" {
			continue
		}
		p.Add(key, value)
	}
	return p, nil
}

// TokenParser reads the `key='value' key='value'` sources of the WFS
// provider. Quoted values may contain spaces. A source without quoted tokens
// is read as a legacy GetFeature URL: its query becomes the pairs and the
// address without query is stored under "url".
type TokenParser struct{}

func (TokenParser) Parse(source string) (Params, error) {
	source = strings.TrimSpace(source)
	if !strings.Contains(source, "='") {
		return parseLegacyURL(source)
	}

	var p Params
	s := source
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		eq := strings.IndexByte(s, '=')
		sp := strings.IndexAny(s, " \t")
		if eq < 0 || (sp >= 0 && sp < eq) {
			// bare word without a value
			if sp < 0 {
				break
			}
			s = s[sp:]
			continue
		}
		key := s[:eq]
		s = s[eq+1:]

		var value string
		if strings.HasPrefix(s, "'") {
			end := strings.IndexByte(s[1:], '\'')
			if end < 0 {
				value, s = s[1:], ""
			} else {
				value, s = s[1:end+1], s[end+2:]
			}
		} else {
			end := strings.IndexAny(s, " \t")
			if end < 0 {
				value, s = s, ""
			} else {
				value, s = s[:end], s[end:]
			}
		}
		p.Add(key, value)
	}
	if p.Len() == 0 {
		return p, fmt.Errorf("%w: no key='value' tokens", ErrMalformedSource)
	}
	return p, nil
}

func parseLegacyURL(source string) (Params, error) {
	var p Params
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return p, fmt.Errorf("%w: not a key='value' list or URL", ErrMalformedSource)
	}
	for _, part := range strings.Split(u.RawQuery, "&") {
		key, value, _ := strings.Cut(part, "=")
		if key == "" {
			continue
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		p.Add(key, value)
	}
	u.RawQuery = ""
	p.Add("url", u.String())
	return p, nil
}

// requireKey returns the value for key or an ErrMissingKey error naming it.
func requireKey(p Params, key string) (string, error) {
	v, ok := p.Lookup(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w %q", ErrMissingKey, key)
	}
	return v, nil
}
