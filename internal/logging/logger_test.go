package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("chatty"))
}

func TestSetup_File(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	name := filepath.Join(t.TempDir(), "fitreport")
	closer := Setup(LoggerSetupParams{LogFileName: name, LogLevel: "info", LogFormatJSON: true})
	require.NotNil(t, closer)

	logrus.WithField("user", "u1").Info("hello")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(b), `"user":"u1"`)
}

func TestSetup_StdoutOnly(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	assert.Nil(t, Setup(LoggerSetupParams{LogLevel: "error"}))
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
}
