package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsExceptionRootWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "scan_scope:\n  - app\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"app"}, cfg.ScanPrefixes)
	require.Equal(t, []string{DefaultExceptionRoot}, cfg.ExceptionRoots)
}

func TestLoad_HonorsExplicitExceptionRoots(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "scan_scope: [app]\nexception_roots: [AppError, HTTPException]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"AppError", "HTTPException"}, cfg.ExceptionRoots)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestInferScope_ExplicitModuleAlwaysWins(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "scan_scope: [fromfile]\n")

	scope, err := InferScope(dir, "explicit", "app.main")
	require.NoError(t, err)
	require.Equal(t, []string{"explicit"}, scope)
}

func TestInferScope_FallsBackToConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "scan_scope: [fromfile]\n")

	scope, err := InferScope(dir, "", "app.main")
	require.NoError(t, err)
	require.Equal(t, []string{"fromfile"}, scope)
}

func TestInferScope_FallsBackToTargetModuleTopSegment(t *testing.T) {
	dir := t.TempDir()

	scope, err := InferScope(dir, "", "app.routers.users")
	require.NoError(t, err)
	require.Equal(t, []string{"app"}, scope)
}

func TestInferScope_GivesUpWithErrMissingScope(t *testing.T) {
	dir := t.TempDir()

	_, err := InferScope(dir, "", "")
	require.ErrorIs(t, err, ErrMissingScope)
}
