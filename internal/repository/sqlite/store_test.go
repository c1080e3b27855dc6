package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Deleted bool   `json:"is_deleted"`
	Type    int    `json:"type"`
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "docum.db"), "test_", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ids(items []repositories.StoredItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}

func TestInsertFindByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "people", "1", doc{ID: "1", Name: "Serkan", Surname: "Akyazici"}))

	item, err := s.FindByID(ctx, "people", "1")
	require.NoError(t, err)
	var got doc
	require.NoError(t, item.Decode(&got))
	assert.Equal(t, "Serkan", got.Name)

	_, err = s.FindByID(ctx, "people", "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.FindByID(ctx, "never_written", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.Insert(ctx, "people", "1", doc{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrConflict, "duplicate primary key")
}

func TestSaveUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "people", "1", doc{ID: "1", Name: "before"}))
	require.NoError(t, s.Save(ctx, "people", "2", doc{ID: "2", Name: "other"}))
	require.NoError(t, s.Save(ctx, "people", "1", doc{ID: "1", Name: "after"}))

	all, err := s.Find(ctx, "people", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(all), "upsert keeps insertion order")

	item, err := s.FindByID(ctx, "people", "1")
	require.NoError(t, err)
	var got doc
	require.NoError(t, item.Decode(&got))
	assert.Equal(t, "after", got.Name)
}

func TestFindFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	docs := []doc{
		{ID: "1", Name: "A", Surname: "X", Type: 0},
		{ID: "2", Name: "A", Surname: "Y", Deleted: true, Type: 1},
		{ID: "3", Name: "B", Surname: "X", Type: 2},
	}
	for _, d := range docs {
		require.NoError(t, s.Insert(ctx, "people", d.ID, d))
	}

	tests := []struct {
		name   string
		filter repositories.Filter
		limit  int
		want   []string
	}{
		{name: "all", want: []string{"1", "2", "3"}},
		{name: "limit", limit: 2, want: []string{"1", "2"}},
		{name: "string", filter: repositories.Filter{repositories.Eq("name", "A")}, want: []string{"1", "2"}},
		{name: "bool", filter: repositories.Filter{repositories.Eq("is_deleted", true)}, want: []string{"2"}},
		{name: "bool false", filter: repositories.Filter{repositories.Eq("is_deleted", false)}, want: []string{"1", "3"}},
		{name: "number", filter: repositories.Filter{repositories.Eq("type", 2)}, want: []string{"3"}},
		{
			name: "conjunction",
			filter: repositories.Filter{{
				{Field: "name", Value: "A"},
				{Field: "surname", Value: "Y"},
			}},
			want: []string{"2"},
		},
		{
			name: "disjunction",
			filter: repositories.Filter{
				repositories.Eq("name", "B"),
				repositories.Eq("surname", "Y"),
			},
			want: []string{"2", "3"},
		},
		{name: "no match", filter: repositories.Filter{repositories.Eq("name", "Z")}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Find(ctx, "people", tt.filter, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFindRejectsUnsafeNames(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Find(ctx, "people; drop", nil, 0)
	assert.Error(t, err)

	_, err = s.Find(ctx, "people", repositories.Filter{repositories.Eq("name') OR 1=1 --", "x")}, 0)
	assert.Error(t, err)
}

func TestEnsureUniqueSurvivesDrop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureUnique(ctx, "people", []string{"name", "surname"}))
	require.NoError(t, s.EnsureUnique(ctx, "people", []string{"name", "surname"}), "idempotent")

	require.NoError(t, s.Insert(ctx, "people", "1", doc{ID: "1", Name: "A", Surname: "X"}))
	require.NoError(t, s.Insert(ctx, "people", "2", doc{ID: "2", Name: "A", Surname: "Y"}))
	err := s.Insert(ctx, "people", "3", doc{ID: "3", Name: "A", Surname: "X"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = s.Save(ctx, "people", "2", doc{ID: "2", Name: "A", Surname: "X"})
	assert.ErrorIs(t, err, domain.ErrConflict, "upsert into taken values")

	existed, err := s.Drop(ctx, "people")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Drop(ctx, "people")
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, s.Insert(ctx, "people", "1", doc{ID: "1", Name: "A", Surname: "X"}))
	err = s.Insert(ctx, "people", "2", doc{ID: "2", Name: "A", Surname: "X"})
	assert.ErrorIs(t, err, domain.ErrConflict, "index recreated after drop")
}

func TestPrefixIsolatesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docum.db")
	ctx := context.Background()

	dev, err := Open(path, "dev_", nil)
	require.NoError(t, err)
	defer dev.Close()
	require.NoError(t, dev.Insert(ctx, "people", "1", doc{ID: "1"}))

	prod, err := Open(path, "prod_", nil)
	require.NoError(t, err)
	defer prod.Close()

	all, err := prod.Find(ctx, "people", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCompileFilter(t *testing.T) {
	where, args, err := compileFilter(repositories.Filter{
		repositories.Eq("user_name", "a"),
		{{Field: "name", Value: "n"}, {Field: "surname", Value: "s"}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"(json_extract(data, '$.user_name') = json_extract(?, '$')) OR "+
			"(json_extract(data, '$.name') = json_extract(?, '$') AND json_extract(data, '$.surname') = json_extract(?, '$'))",
		where)
	assert.Equal(t, []any{`"a"`, `"n"`, `"s"`}, args)
}
