package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMapsOverlaysNestedKeys(t *testing.T) {
	base := map[string]any{
		"db":   map[string]any{"host": "localhost", "port": 5432},
		"tags": []any{"a", "b"},
	}
	overlay := map[string]any{
		"db":   map[string]any{"host": "db.prod"},
		"tags": []any{"c"},
	}

	merged := mergeMaps(base, overlay)

	assert.Equal(t, map[string]any{"host": "db.prod", "port": 5432}, merged["db"])
	assert.Equal(t, []any{"c"}, merged["tags"])
	assert.Equal(t, "localhost", base["db"].(map[string]any)["host"], "inputs are not mutated")
}

func TestExpandAllUsesSecretsThenEnvironment(t *testing.T) {
	t.Setenv("FROM_ENV", "env-value")
	lookup := lookupIn(map[string]string{"FROM_FILE": "file-value", "FROM_ENV": "file-wins"})

	out := expandAll(map[string]any{
		"a":    "${FROM_FILE}",
		"b":    "prefix-${FROM_ENV}",
		"c":    "${NOT_SET_ANYWHERE_42}",
		"list": []any{"${FROM_FILE}", 7},
		"n":    3,
	}, lookup).(map[string]any)

	assert.Equal(t, "file-value", out["a"])
	assert.Equal(t, "prefix-file-wins", out["b"])
	assert.Equal(t, "${NOT_SET_ANYWHERE_42}", out["c"])
	assert.Equal(t, []any{"file-value", 7}, out["list"])
	assert.Equal(t, 3, out["n"])
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
JWT_SECRET="quoted value"
DB_PASSWORD='single'
 SPACED = trimmed
NOEQUALS
`), 0o600))

	env, err := loadEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"JWT_SECRET":  "quoted value",
		"DB_PASSWORD": "single",
		"SPACED":      "trimmed",
	}, env)
}

func TestLoadConfigSkipsMissingOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("server:\n  port: \"8080\"\n"), 0o600))

	merged, err := LoadConfig("staging", dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": "8080"}, merged["server"])
}

func TestLoadConfigRejectsBrokenOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("a: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("a: [1\n"), 0o600))

	_, err := LoadConfig("broken", dir)
	assert.Error(t, err)
}

func TestDSNEscapesCredentials(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: 5432, User: "focus", Password: "p@ss/word", Name: "board"}
	assert.Equal(t, "postgres://focus:p%40ss%2Fword@db:5432/board?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestOverrideFromEnvIgnoresUnparsable(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("REDIS_DB", "2")

	db := DBConfig{Host: "localhost", Port: 5432}
	OverrideDBFromEnv(&db)
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, 5432, db.Port)

	var o OTelConfig
	OverrideOTelFromEnv(&o)
	assert.True(t, o.Enabled)

	var r RedisConfig
	OverrideRedisFromEnv(&r)
	assert.Equal(t, 2, r.DB)
}
