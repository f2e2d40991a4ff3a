package httpx_test

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/soapbox/pkg/httpx"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   httpx.Format
	}{
		{"", httpx.FormatJSON},
		{"*/*", httpx.FormatJSON},
		{"application/json", httpx.FormatJSON},
		{"application/xml", httpx.FormatXML},
		{"text/xml", httpx.FormatXML},
		{"application/x-yaml", httpx.FormatYAML},
		{"text/yaml", httpx.FormatYAML},
		{"text/plain", httpx.FormatText},
		{"image/png", httpx.FormatJSON},
		{"application/xml;q=0.5, application/x-yaml", httpx.FormatYAML},
		{"application/xml;q=0, text/plain", httpx.FormatText},
		{"text/html, application/xml;q=0.9, */*;q=0.8", httpx.FormatXML},
		{"garbage;;;, text/plain", httpx.FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			require.Equal(t, tt.want, httpx.Negotiate(tt.accept))
		})
	}
}

type sample struct {
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Tags    []string    `json:"tags"`
	Links   httpx.Links `json:"_links"`
}

func sampleBody() sample {
	return sample{
		Message: "hello & bye",
		Count:   3,
		Tags:    []string{"a", "b"},
		Links:   httpx.Links{"self": httpx.Self("/posts")},
	}
}

func TestWriteFormats(t *testing.T) {
	render := func(accept string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req.Header.Set("Accept", accept)
		rec := httptest.NewRecorder()
		httpx.Write(rec, req, http.StatusCreated, sampleBody())
		return rec
	}

	t.Run("json", func(t *testing.T) {
		rec := render("application/json")
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		require.JSONEq(t, `{"message":"hello & bye","count":3,"tags":["a","b"],"_links":{"self":{"href":"/posts"}}}`, rec.Body.String())
	})

	t.Run("xml", func(t *testing.T) {
		rec := render("application/xml")
		require.Contains(t, rec.Header().Get("Content-Type"), "application/xml")

		var doc struct {
			XMLName xml.Name `xml:"response"`
			Message string   `xml:"message"`
			Count   int      `xml:"count"`
			Tags    []string `xml:"tags"`
			Self    string   `xml:"_links>self>href"`
		}
		require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
		require.Equal(t, "hello & bye", doc.Message)
		require.Equal(t, 3, doc.Count)
		require.Equal(t, []string{"a", "b"}, doc.Tags)
		require.Equal(t, "/posts", doc.Self)

		// keys are sorted
		body := rec.Body.String()
		require.Less(t, strings.Index(body, "<_links>"), strings.Index(body, "<count>"))
	})

	t.Run("yaml", func(t *testing.T) {
		rec := render("application/x-yaml")
		require.Contains(t, rec.Header().Get("Content-Type"), "application/x-yaml")

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
		require.Equal(t, "hello & bye", doc["message"])
		require.Equal(t, 3, doc["count"])
	})

	t.Run("text", func(t *testing.T) {
		rec := render("text/plain")
		require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		require.Contains(t, rec.Body.String(), "\n  \"message\": \"hello & bye\"")
	})
}

func TestEncodeXMLTopLevelArray(t *testing.T) {
	out, err := httpx.Encode(httpx.FormatXML, []int{1, 2})
	require.NoError(t, err)
	require.Contains(t, string(out), "<response>")
	require.Contains(t, string(out), "<item>1</item>")
	require.Contains(t, string(out), "<item>2</item>")
}

func TestEncodeYAMLKeepsNumbers(t *testing.T) {
	out, err := httpx.Encode(httpx.FormatYAML, map[string]any{"id": 7, "ratio": 1.5, "name": "42"})
	require.NoError(t, err)
	require.Contains(t, string(out), "id: 7\n")
	require.Contains(t, string(out), "ratio: 1.5\n")
	require.NotContains(t, string(out), `"7"`)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	require.Equal(t, 7, got["id"])
	require.Equal(t, 1.5, got["ratio"])
	require.Equal(t, "42", got["name"])
}

func TestEncodeLeavesHTMLUnescaped(t *testing.T) {
	body := map[string]string{"content": "<b>a & b</b>"}

	for _, f := range []httpx.Format{httpx.FormatJSON, httpx.FormatText} {
		out, err := httpx.Encode(f, body)
		require.NoError(t, err)
		require.Contains(t, string(out), `"<b>a & b</b>"`)
		require.NotContains(t, string(out), `\u003c`)
		require.NotContains(t, string(out), `\u0026`)
	}
}

func TestWriteETag(t *testing.T) {
	get := func(inm string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		if inm != "" {
			req.Header.Set("If-None-Match", inm)
		}
		rec := httptest.NewRecorder()
		httpx.Write(rec, req, http.StatusOK, sampleBody())
		return rec
	}

	first := get("")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := get(etag)
	require.Equal(t, http.StatusNotModified, second.Code)
	require.Empty(t, second.Body.String())

	require.Equal(t, http.StatusNotModified, get(`"other", W/`+etag).Code)
	require.Equal(t, http.StatusNotModified, get("*").Code)
	require.Equal(t, http.StatusOK, get(`"stale"`).Code)

	// ETags are per representation.
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Accept", "application/xml")
	rec := httptest.NewRecorder()
	httpx.Write(rec, req, http.StatusOK, sampleBody())
	require.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestWriteNoETagOnWrites(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/posts/1", nil)
	rec := httptest.NewRecorder()
	httpx.Write(rec, req, http.StatusOK, sampleBody())

	require.Empty(t, rec.Header().Get("ETag"))
}
