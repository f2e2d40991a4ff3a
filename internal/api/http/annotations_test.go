package http

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var routerAnnotation = regexp.MustCompile(`^//\s+@Router\s+/\S*\s+\[(get|post|put|patch|delete)\]$`)

// swag only accepts "@Router <path> [<method>]" with nothing after it.
func TestRouterAnnotations(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	var seen int
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		src, err := os.ReadFile(file)
		require.NoError(t, err)

		for i, line := range strings.Split(string(src), "\n") {
			if !strings.Contains(line, "@Router") {
				continue
			}
			seen++
			require.Regexp(t, routerAnnotation, strings.TrimSpace(line), "%s:%d", file, i+1)
		}
	}
	require.NotZero(t, seen)
}
