package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todopet/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todopet.log")

	log, err := New(config.Log{Path: path, Level: "debug", MaxSizeMB: 1}, false)
	require.NoError(t, err)
	log.Infow("tick", "urgent", 2)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick"`)
	assert.Contains(t, string(data), `"urgent":2`)
	assert.Contains(t, string(data), `"session":"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.Log{Path: filepath.Join(t.TempDir(), "x.log"), Level: "chatty"}, false)
	assert.Error(t, err)
}
