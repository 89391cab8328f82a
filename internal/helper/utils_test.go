package helper

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	require.NoError(t, err)
	b, err := GenerateUUID()
	require.NoError(t, err)

	_, err = uuid.Parse(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, map[string]int{"chunks": 5}))
	assert.Equal(t, "{\n  \"chunks\": 5\n}\n", buf.String())
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "nested", "chat.md")
	require.NoError(t, WriteFile(path, []byte("# chat")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# chat", string(data))
}
