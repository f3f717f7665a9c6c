package housing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/housingjson/internal/jsonval"
	"github.com/roach88/housingjson/internal/store"
)

func TestCreateGetUpdateDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	doc := jsonval.Object{"CSDUID": jsonval.String("4801099"), "CSD": jsonval.String("Sylvan Lake")}
	rec, err := svc.Create(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.ID)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, jsonval.Value(doc), got.Document)

	doc["CSD"] = jsonval.String("Lacombe")
	require.NoError(t, svc.Update(ctx, rec.ID, doc))

	got, err = svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, jsonval.String("Lacombe"), got.Document.(jsonval.Object)["CSD"])

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_RejectsEmptyDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, jsonval.Object{})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = svc.Create(ctx, jsonval.Array{})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	assert.ErrorIs(t, svc.Update(ctx, 1, jsonval.Null{}), ErrEmptyDocument)
}

func TestCreateBulk(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.CreateBulk(ctx, []jsonval.Value{
		jsonval.Object{"CSD": jsonval.String("Banff")},
		jsonval.Object{"CSD": jsonval.String("Canmore")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestCreateBulk_Rejects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBulk(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = svc.CreateBulk(ctx, []jsonval.Value{jsonval.Object{"CSD": jsonval.String("Banff")}, jsonval.Object{}})
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.Contains(t, err.Error(), "document 1")

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestUpdateDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, 404, jsonval.Object{"CSD": jsonval.String("x")}), store.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 404), store.ErrNotFound)
}

func TestPing(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.NoError(t, svc.Ping(context.Background()))
}
