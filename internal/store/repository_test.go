package store_test

import (
	"context"
	"testing"

	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[model.Customer](storetest.NewDB(t), "customer", "name ASC")

	email := "ada@example.com"
	require.NoError(t, repo.Create(ctx, &model.Customer{Name: "Zed"}))
	c := &model.Customer{Name: "Ada", Email: &email}
	require.NoError(t, repo.Create(ctx, c))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)

	updated, err := repo.Update(ctx, c.ID, store.NewPatch().Set("phone", "555"))
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555", *updated.Phone)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.Update(ctx, c.ID, store.NewPatch().Set("name", "x"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
