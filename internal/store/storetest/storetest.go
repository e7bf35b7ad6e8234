// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

// Run exercises s against the Store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list, "new store must be empty")

	ani, err := s.Insert(ctx, siswa.Record{Name: " Ani ", Address: "Jl. A", Phone: "0812"})
	require.NoError(t, err)
	require.True(t, ani.HasID(), "Insert must assign an id")
	require.Equal(t, "Ani", ani.Name, "Insert stores the trimmed record")

	budi, err := s.Insert(ctx, siswa.Record{ID: "ignored", Name: "Budi", Address: "Jl. B", Phone: "0813"})
	require.NoError(t, err)
	require.NotEqual(t, "ignored", budi.ID, "Insert must assign a fresh id")
	require.NotEqual(t, ani.ID, budi.ID)

	got, found, err := s.Get(ctx, ani.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ani, got)

	_, found, err = s.Get(ctx, "missing")
	require.NoError(t, err, "absent is not an error")
	require.False(t, found)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{ani.ID, budi.ID}, ids(list), "List keeps insertion order")

	// Update is a full replace and repeatable.
	updated := siswa.Record{ID: ani.ID, Name: "Ani S", Address: "Jl. C", Phone: "0899"}
	require.NoError(t, s.Update(ctx, updated))
	require.NoError(t, s.Update(ctx, updated))
	got, _, err = s.Get(ctx, ani.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)

	err = s.Update(ctx, siswa.Record{ID: "missing", Name: "X", Address: "Y", Phone: "1"})
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, ani.ID))
	require.NoError(t, s.Delete(ctx, ani.ID), "Delete must be idempotent")
	_, found, err = s.Get(ctx, ani.ID)
	require.NoError(t, err)
	require.False(t, found, "record still present after Delete")

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{budi.ID}, ids(list))
}

func ids(records []siswa.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}
