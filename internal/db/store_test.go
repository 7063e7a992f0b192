package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/atharv3903/metronav/internal/db"
)

func newStore(t *testing.T) db.Store {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	s := db.Store{DB: conn}
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.PutNetwork(ctx, "spb", ",A\nA,0\n"))
	body, err := s.Network(ctx, "spb")
	require.NoError(t, err)
	assert.Equal(t, ",A\nA,0\n", body)

	require.NoError(t, s.PutNetwork(ctx, "spb", ",Маяковская\nМаяковская,0\n"))
	body, err = s.Network(ctx, "spb")
	require.NoError(t, err)
	assert.Equal(t, ",Маяковская\nМаяковская,0\n", body)
}

func TestStore_NotFound(t *testing.T) {
	_, err := newStore(t).Network(context.Background(), "nope")
	require.ErrorIs(t, err, db.ErrNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestStore_Names(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.PutNetwork(ctx, "moscow", ",A\nA,0"))
	require.NoError(t, s.PutNetwork(ctx, "kazan", ",A\nA,0"))
	require.NoError(t, s.PutNetwork(ctx, "moscow", ",B\nB,0"))

	names, err = s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kazan", "moscow"}, names)
}

func TestStore_EnsureSchemaIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), "oracle", "x")
	require.Error(t, err)
}
