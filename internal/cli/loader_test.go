package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prestige/internal/ir"
)

func declsDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("..", "..", "testdata", "decls")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatal("testdata/decls directory not found")
	}
	return dir
}

func TestLoadDeclarations(t *testing.T) {
	result, errs := LoadDeclarations(declsDir(t), LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Declarations, 3)

	// Section priority order: interface, impl, fn.
	assert.Equal(t, ir.KindInterface, result.Declarations[0].Kind())
	assert.Equal(t, "Fetcher", result.Declarations[0].DeclName())
	assert.Equal(t, ir.KindImpl, result.Declarations[1].Kind())
	assert.Equal(t, ir.KindFn, result.Declarations[2].Kind())
	assert.Equal(t, "poll_all", result.Declarations[2].DeclName())
}

func TestLoadDeclarationsDirNotFound(t *testing.T) {
	result, errs := LoadDeclarations(filepath.Join("..", "..", "testdata", "missing"), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDeclarationsEmptyDir(t *testing.T) {
	result, errs := LoadDeclarations(t.TempDir(), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDeclarationsUnknownShape(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "invalid")
	result, errs := LoadDeclarations(dir, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeParse, loadErr.Code)
}

func TestFindCUEFiles(t *testing.T) {
	files, err := FindCUEFiles(declsDir(t))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".cue", filepath.Ext(files[0]))
}

func TestLoadErrorFormatting(t *testing.T) {
	err := &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found"}
	assert.Equal(t, "E003: no CUE files found", err.Error())
}
