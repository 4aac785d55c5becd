package machine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource(t *testing.T) {
	source, name, err := readSource(nil, "+.")
	require.NoError(t, err)
	assert.Equal(t, "+.", source)
	assert.Equal(t, "<expression>", name)

	_, _, err = readSource([]string{"a.b"}, "+.")
	assert.Error(t, err)

	_, _, err = readSource(nil, "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "prog.b")
	require.NoError(t, os.WriteFile(path, []byte("++."), 0o644))
	source, name, err = readSource([]string{path}, "")
	require.NoError(t, err)
	assert.Equal(t, "++.", source)
	assert.Equal(t, path, name)

	_, _, err = readSource([]string{filepath.Join(t.TempDir(), "missing.b")}, "")
	assert.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = previous }()

	assert.Equal(t, "ab[cd\n    ^", excerpt("ab[cd", 2))
	assert.Equal(t, "a b\n  ^", excerpt("a\nb", 0))

	long := "++++++++++++++++++++++++++++++[++++++++++++++++++++++++++++++"
	assert.Equal(t, long[10:51]+"\n  "+"                    ^", excerpt(long, 30))
}
