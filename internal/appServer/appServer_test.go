package appServer

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ds124wfegd/imgaug/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("storage.base_path", t.TempDir())
	v.Set("kafka.brokers", []string{})
	cfg, err := config.ParseConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestNewApp(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("health route is wired", func(t *testing.T) {
		app, err := NewApp(testConfig(t), logger)
		require.NoError(t, err)
		defer app.Producer.Close()

		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown job is 404", func(t *testing.T) {
		app, err := NewApp(testConfig(t), logger)
		require.NoError(t, err)
		defer app.Producer.Close()

		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad output format", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Augment.Format = "webp"
		_, err := NewApp(cfg, logger)
		assert.Error(t, err)
	})

	t.Run("bad fill mode", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Augment.FillMode = "smear"
		_, err := NewApp(cfg, logger)
		assert.Error(t, err)
	})
}
