package envfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulzo/model-capability-api/internal/envfile"
	"github.com/nulzo/model-capability-api/pkg/api"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	f, err := envfile.Load(path)
	require.NoError(t, err)
	assert.Empty(t, f.Keys())
	assert.Equal(t, "", f.Get("ANYTHING"))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	f, err := envfile.Load(path)
	require.NoError(t, err)

	f.Set("OPENAI_API_KEY", "sk-test")
	f.Set("LOG_LEVEL", "debug")
	require.NoError(t, f.Save())

	again, err := envfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", again.Get("OPENAI_API_KEY"))
	assert.Equal(t, "debug", again.Get("LOG_LEVEL"))
	assert.Equal(t, []string{"LOG_LEVEL", "OPENAI_API_KEY"}, again.Keys())
}

func TestSaveCreatesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=info\n"), 0644))

	f, err := envfile.Load(path)
	require.NoError(t, err)
	f.Set("LOG_LEVEL", "warn")
	require.NoError(t, f.Save())

	backup, err := os.ReadFile(path + ".backup")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "info")

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "warn")
}

func TestFirstSaveHasNoBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	f, err := envfile.Load(path)
	require.NoError(t, err)
	f.Set("LOG_LEVEL", "info")
	require.NoError(t, f.Save())

	_, err = os.Stat(path + ".backup")
	assert.True(t, os.IsNotExist(err))
}

func TestCustomModelsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	f, err := envfile.Load(path)
	require.NoError(t, err)

	models := map[string]api.CustomModelConfig{
		"local-model": {ContextWindow: 8192, Aliases: []string{"local"}},
	}
	require.NoError(t, f.SetCustomModels(models))
	require.NoError(t, f.Save())

	again, err := envfile.Load(path)
	require.NoError(t, err)

	decoded, err := again.CustomModels()
	require.NoError(t, err)
	require.Contains(t, decoded, "local-model")
	assert.Equal(t, 8192, decoded["local-model"].ContextWindow)
	assert.Equal(t, []string{"local"}, decoded["local-model"].Aliases)
}

func TestCustomModelsRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OPENAI_CUSTOM_MODELS={not json}\n"), 0644))

	f, err := envfile.Load(path)
	require.NoError(t, err)

	_, err = f.CustomModels()
	require.Error(t, err)
}

func TestSetCustomModelsEmptyClearsVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	f, err := envfile.Load(path)
	require.NoError(t, err)

	f.Set(envfile.CustomModelsVar, `{"x":{"context_window":1}}`)
	require.NoError(t, f.SetCustomModels(map[string]api.CustomModelConfig{}))
	assert.Equal(t, "", f.Get(envfile.CustomModelsVar))
}
