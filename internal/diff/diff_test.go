package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const gitDiff = `diff --git a/parser.go b/parser.go
index 83db48f..bf269f4 100644
--- a/parser.go
+++ b/parser.go
@@ -1,4 +1,5 @@
 package parser

-func parse(s string) {}
+func parse(s string) error {
+	return nil
+}
`

func TestParseGitDiff(t *testing.T) {
	st := Parse(gitDiff)

	assert.Equal(t, []string{"func parse(s string) error {", "\treturn nil", "}"}, st.Added)
	assert.Equal(t, []string{"func parse(s string) {}"}, st.Removed)
}

func TestParseBareHunkFallsBack(t *testing.T) {
	raw := "+added line\n-removed line\n unchanged\n"

	st := Parse(raw)

	assert.Equal(t, []string{"added line"}, st.Added)
	assert.Equal(t, []string{"removed line"}, st.Removed)
}

func TestParseSkipsHeaders(t *testing.T) {
	raw := "--- a/file.txt\n+++ b/file.txt\n+new\n"

	st := Parse(raw)

	assert.Equal(t, []string{"new"}, st.Added)
	assert.Empty(t, st.Removed)
}

func TestParseEmpty(t *testing.T) {
	st := Parse("")

	assert.True(t, st.Empty())
	assert.Empty(t, st.Changed())
}

func TestChangedCombinesBoth(t *testing.T) {
	st := Stats{Added: []string{"a"}, Removed: []string{"b"}}

	assert.Equal(t, []string{"a", "b"}, st.Changed())
	assert.False(t, st.Empty())
}
