package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  http:
    addr: 0.0.0.0:8000
    timeout: 1s
data:
  database:
    driver: mysql
    source: root:pass@tcp(127.0.0.1:3306)/daily_drop?parseTime=True
    max_idle_conns: 10
    max_open_conns: 100
    conn_max_lifetime: 1h
  redis:
    addr: 127.0.0.1:6379
    db: 0
client:
  catalog_service:
    addr: http://127.0.0.1:8100
    timeout: 2s
engine:
  materialize_window_days: 30
log:
  level: info
  format: json
  output: stdout
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", c.Server.Http.Addr)
	assert.Equal(t, "mysql", c.Data.Database.Driver)
	assert.Equal(t, 100, c.Data.Database.MaxOpenConns)
	assert.Equal(t, "127.0.0.1:6379", c.Data.Redis.Addr)
	assert.Equal(t, "http://127.0.0.1:8100", c.Client.CatalogService.Addr)
	assert.Equal(t, 30, c.Engine.MaterializeWindowDays)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	incomplete := `
server:
  http:
    addr: 0.0.0.0:8000
`
	_, err := Load(writeTempConfig(t, incomplete))
	assert.ErrorContains(t, err, "invalid config")
}

func TestValidate(t *testing.T) {
	c, err := Load(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)

	c.Server.Http.Addr = ""
	assert.Error(t, c.Validate())

	c, err = Load(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)
	c.Data.Database.Source = ""
	assert.Error(t, c.Validate())

	c, err = Load(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)
	c.Client.CatalogService = nil
	assert.Error(t, c.Validate())

	c, err = Load(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)
	c.Engine.MaterializeWindowDays = -1
	assert.Error(t, c.Validate())
}
