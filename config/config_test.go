package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
cluster:
  contactPoints:
    - cassandra-1.internal
    - cassandra-2.internal
  keyspace: demo
  consistency: LOCAL_QUORUM
  auth:
    enabled: true
    username: app
    password: hunter2
logger:
  outputType: file
  logLevel: debug
  fileName: /tmp/casskit.log
  maxSize: 50
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"cassandra-1.internal", "cassandra-2.internal"}, cfg.Cluster.ContactPoints)
	assert.Equal(t, 9042, cfg.Cluster.Port) // defaulted
	assert.Equal(t, "demo", cfg.Cluster.Keyspace)
	assert.True(t, cfg.Cluster.Auth.Enabled)
	require.NotNil(t, cfg.Logger)
	assert.Equal(t, "file", cfg.Logger.OutputType)
	assert.Equal(t, 50, cfg.Logger.MaxSize)
}

func TestParseErrors(t *testing.T) {
	t.Run("no contact points", func(t *testing.T) {
		_, err := Parse([]byte("cluster:\n  keyspace: demo\n"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Parse([]byte("cluster: ["))
		assert.Error(t, err)
	})

	t.Run("bad logger output", func(t *testing.T) {
		_, err := Parse([]byte("cluster:\n  contactPoints: [c1]\nlogger:\n  outputType: syslog\n"))
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("nil config defaults to console", func(t *testing.T) {
		logger, err := NewLogger(nil)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("file output", func(t *testing.T) {
		logger, err := NewLogger(&LoggerConfig{
			OutputType: "file",
			Filename:   t.TempDir() + "/out.log",
			LogLevel:   "warn",
		})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := NewLogger(&LoggerConfig{LogLevel: "chatty"})
		assert.Error(t, err)
	})
}
