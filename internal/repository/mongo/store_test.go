package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCompileFilter(t *testing.T) {
	got, err := compileFilter(repositories.Filter{
		repositories.Eq("user_name", "sakyazici"),
		{{Field: "name", Value: "Serkan"}, {Field: "surname", Value: "Akyazici"}},
	})
	require.NoError(t, err)

	want := bson.M{"$or": bson.A{
		bson.D{{Key: "user_name", Value: "sakyazici"}},
		bson.D{{Key: "name", Value: "Serkan"}, {Key: "surname", Value: "Akyazici"}},
	}}
	assert.Equal(t, want, got)

	empty, err := compileFilter(nil)
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, empty)

	_, err = compileFilter(repositories.Filter{repositories.Eq("$where", "1")})
	assert.Error(t, err)
}

type doc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type noID struct {
	Name string `bson:"name"`
}

func TestToDocument(t *testing.T) {
	d, err := toDocument("1", doc{ID: "1", Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: "1"}, {Key: "name", Value: "a"}}, d)

	d, err = toDocument("2", noID{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "_id", Value: "2"}, {Key: "name", Value: "b"}}, d)

	_, err = toDocument("3", doc{ID: "other"})
	assert.Error(t, err)
}

func TestIndexModel(t *testing.T) {
	m := indexModel("test_users", []string{"name", "surname"})
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "surname", Value: 1}}, m.Keys)
	require.NotNil(t, m.Options)
	assert.True(t, *m.Options.Unique)
	assert.Equal(t, "test_users_uq_name_surname", *m.Options.Name)
}

func TestStoreIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "docum_test", fmt.Sprintf("t%d_", time.Now().UnixNano()), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = s.Drop(context.Background(), "people")
		s.Close()
	})

	require.NoError(t, s.EnsureUnique(ctx, "people", []string{"name"}))
	require.NoError(t, s.Insert(ctx, "people", "1", doc{ID: "1", Name: "a"}))
	require.NoError(t, s.Insert(ctx, "people", "2", doc{ID: "2", Name: "b"}))

	err = s.Insert(ctx, "people", "3", doc{ID: "3", Name: "a"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, s.Save(ctx, "people", "2", doc{ID: "2", Name: "c"}))

	found, err := s.Find(ctx, "people", repositories.Filter{repositories.Eq("name", "c")}, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].ItemID())

	var got doc
	require.NoError(t, found[0].Decode(&got))
	assert.Equal(t, "c", got.Name)

	_, err = s.FindByID(ctx, "people", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	existed, err := s.Drop(ctx, "people")
	require.NoError(t, err)
	assert.True(t, existed)
}
