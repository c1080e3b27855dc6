package seed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"docum/internal/app"
	"docum/internal/config"
	"docum/internal/domain"
	"docum/internal/seed"
	"docum/internal/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(ctx, &config.Config{
		StoreDriver:     config.DriverMemory,
		TablePrefix:     "test_",
		VersionRollover: config.DefaultVersionRollover,
	}, logger)
	require.NoError(t, err)

	seeder := seed.NewSeeder(seed.Services{
		Users:     a.UserService,
		Folders:   a.FolderService,
		Documents: a.DocumentService,
	}, logger)

	result, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Documents)
	// Chapters, Notes, Characters, Worldbuilding, Places
	assert.Equal(t, 5, result.Folders)

	folders, documents := tree.Count(result.User.RootFolder)
	assert.Equal(t, 6, folders)
	assert.Equal(t, 4, documents)
	assert.Equal(t, 4, tree.Depth(result.User.RootFolder))

	chapters := result.User.RootFolder.Folders[0]
	require.Len(t, chapters.Documents, 2)
	assert.Equal(t, "Chapter 1 - The Beginning", chapters.Documents[0].Name)
	assert.Equal(t, "0.2", chapters.Documents[0].Version.String())
	assert.Equal(t, []string{"draft", "chapter"}, chapters.Documents[0].Keywords)

	_, err = seeder.Seed(ctx)
	require.ErrorIs(t, err, domain.ErrConflict)
}
