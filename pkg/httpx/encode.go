package httpx

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// XMLRoot is the document element of XML responses.
const XMLRoot = "response"

// Encode renders v in format f. Non-JSON formats go through the JSON form
// first so json struct tags decide field names everywhere.
func Encode(f Format, v any) ([]byte, error) {
	body, err := marshalJSON(v)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatText:
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil

	case FormatYAML:
		doc, err := generic(body)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(yamlNumbers(doc))

	case FormatXML:
		doc, err := generic(body)
		if err != nil {
			return nil, err
		}
		return encodeXML(doc)

	default:
		return append(body, '\n'), nil
	}
}

// marshalJSON is json.Marshal without HTML escaping, so "&", "<" and ">"
// come out as written.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("httpx: marshal: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// yamlNumbers replaces json.Number values, which yaml.v3 would quote, with
// int64 or float64.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = yamlNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = yamlNumbers(item)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// generic decodes JSON into maps, slices and json.Number so integers stay
// integers.
func generic(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("httpx: decode: %w", err)
	}
	return doc, nil
}

func encodeXML(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	var err error
	if list, ok := doc.([]any); ok {
		err = writeXMLWrapped(enc, XMLRoot, list)
	} else {
		err = writeXML(enc, XMLRoot, doc)
	}
	if err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeXML writes v as element name. Object keys are sorted, arrays become
// repeated elements with the same name.
func writeXML(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	switch t := v.(type) {
	case map[string]any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := writeXML(enc, xmlName(k), t[k]); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case []any:
		for _, item := range t {
			var err error
			if nested, ok := item.([]any); ok {
				err = writeXMLWrapped(enc, name, nested)
			} else {
				err = writeXML(enc, name, item)
			}
			if err != nil {
				return err
			}
		}
		return nil

	case nil:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())

	case json.Number:
		return enc.EncodeElement(t.String(), start)

	default:
		return enc.EncodeElement(t, start)
	}
}

// writeXMLWrapped writes a list as <name><item/>...</name>.
func writeXMLWrapped(enc *xml.Encoder, name string, list []any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeXML(enc, "item", list); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// xmlName turns a JSON key into a legal element name.
func xmlName(k string) string {
	if k == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range k {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if strings.HasPrefix(strings.ToLower(name), "xml") {
		name = "_" + name
	}
	return name
}
