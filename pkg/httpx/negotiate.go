package httpx

import (
	"cmp"
	"mime"
	"slices"
	"strconv"
	"strings"
)

// Format is a response representation the API can produce.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
	FormatYAML
	FormatText
)

// ContentType returns the Content-Type header value for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXML:
		return "application/xml; charset=utf-8"
	case FormatYAML:
		return "application/x-yaml; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatYAML:
		return "yaml"
	case FormatText:
		return "text"
	default:
		return "json"
	}
}

var mediaFormats = map[string]Format{
	"application/json":   FormatJSON,
	"application/*":      FormatJSON,
	"*/*":                FormatJSON,
	"application/xml":    FormatXML,
	"text/xml":           FormatXML,
	"application/x-yaml": FormatYAML,
	"application/yaml":   FormatYAML,
	"text/yaml":          FormatYAML,
	"text/x-yaml":        FormatYAML,
	"text/plain":         FormatText,
	"text/*":             FormatText,
}

type mediaRange struct {
	typ string
	q   float64
}

// Negotiate picks a format from an Accept header. Ranges are tried in
// descending q order, ties keep header order. Anything unrecognised, or no
// header at all, gets JSON.
func Negotiate(accept string) Format {
	if strings.TrimSpace(accept) == "" {
		return FormatJSON
	}

	var ranges []mediaRange
	for part := range strings.SplitSeq(accept, ",") {
		typ, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				q = v
			}
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, mediaRange{typ: typ, q: q})
	}

	slices.SortStableFunc(ranges, func(a, b mediaRange) int {
		return cmp.Compare(b.q, a.q)
	})

	for _, mr := range ranges {
		if f, ok := mediaFormats[mr.typ]; ok {
			return f
		}
	}
	return FormatJSON
}
