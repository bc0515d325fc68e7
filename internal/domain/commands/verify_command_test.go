//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedorza-therefore/handy-scripts/internal/domain/commands"
	"github.com/fedorza-therefore/handy-scripts/internal/domain/entities"
	domainRepos "github.com/fedorza-therefore/handy-scripts/internal/domain/repositories"
	doubles "github.com/fedorza-therefore/handy-scripts/test/infrastructure/repositorydoubles"
)

func TestVerifyCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should fail when the manifest does not validate", func(t *testing.T) {
		// given
		pm := &doubles.SpyPackageManagerRepository{
			ValidateErr: errors.New("lock file out of date"),
		}
		command := commands.NewVerifyCommand(
			func(_ *entities.Settings) domainRepos.PackageManagerRepository { return pm },
		)

		// when
		err := command.Execute(context.Background(), entities.DefaultSettings(), commands.VerifyOptions{})

		// then
		require.Error(t, err)
		assert.Equal(t, 1, pm.ValidateCalls, "validation runs even when other checks fail")
	})
}

func TestCheckBinary(t *testing.T) {
	t.Parallel()

	t.Run("should resolve a binary that exists on PATH", func(t *testing.T) {
		// when
		result := commands.CheckBinary("sh")

		// then
		assert.True(t, result.OK)
		assert.NotEmpty(t, result.Detail)
	})

	t.Run("should fail for a binary that does not exist", func(t *testing.T) {
		// when
		result := commands.CheckBinary("handy-definitely-missing-binary")

		// then
		assert.False(t, result.OK)
		assert.Equal(t, "not found on PATH", result.Detail)
	})
}

func TestCheckFile(t *testing.T) {
	t.Parallel()

	t.Run("should pass for an existing file", func(t *testing.T) {
		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "composer.json"), []byte("{}"), 0o644))

		// when
		result := commands.CheckFile(dir, "composer.json")

		// then
		assert.True(t, result.OK)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		// when
		result := commands.CheckFile(t.TempDir(), "composer.lock")

		// then
		assert.False(t, result.OK)
		assert.Equal(t, "missing", result.Detail)
	})

	t.Run("should fail when the path is a directory", func(t *testing.T) {
		// given
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "composer.json"), 0o755))

		// when
		result := commands.CheckFile(dir, "composer.json")

		// then
		assert.False(t, result.OK)
	})
}

func TestCheckDir(t *testing.T) {
	t.Parallel()

	t.Run("should pass for an existing directory", func(t *testing.T) {
		// given
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "vendor"), 0o755))

		// when
		result := commands.CheckDir(dir, "vendor")

		// then
		assert.True(t, result.OK)
	})

	t.Run("should fail for a missing directory", func(t *testing.T) {
		// when
		result := commands.CheckDir(t.TempDir(), "vendor")

		// then
		assert.False(t, result.OK)
		assert.Contains(t, result.Detail, "composer install")
	})
}
