package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/siswa/internal/config"
	"github.com/five82/siswa/internal/gateway/local"
	"github.com/five82/siswa/internal/gateway/remote"
	"github.com/five82/siswa/internal/siswa"
)

func TestOpenGatewayByDriver(t *testing.T) {
	base := config.Default()
	base.DBPath = filepath.Join(t.TempDir(), "siswa.db")

	cases := []struct {
		driver string
		remote bool
	}{
		{config.DriverRemote, true},
		{config.DriverMemory, false},
		{config.DriverSQLite, false},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			cfg := base
			cfg.Driver = tc.driver
			gw, closeFn, err := OpenGateway(cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closeFn() })

			if tc.remote {
				require.IsType(t, &remote.Client{}, gw)
			} else {
				require.IsType(t, &local.Gateway{}, gw)
			}
		})
	}
}

func TestOpenGatewaySQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Driver = config.DriverSQLite
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "siswa.db")

	gw, closeFn, err := OpenGateway(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	id, err := gw.Insert(ctx, siswa.Record{Name: "Ani", Address: "Jl. Mawar", Phone: "0812"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, found, err := gw.GetByID(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Ani", rec.Name)
}

func TestOpenStoreSeedsMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = config.DriverMemory
	cfg.Seed = true

	s, err := OpenStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	records, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, len(SampleRecords))
	for _, rec := range records {
		require.True(t, rec.HasID(), "seeded record without id: %+v", rec)
		require.NoError(t, siswa.Validate(rec))
	}
}

func TestOpenStoreRejectsRemote(t *testing.T) {
	_, err := OpenStore(config.Default())
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := LoadConfig(path, " SQLite ", "127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, config.DriverSQLite, cfg.Driver)
	require.Equal(t, "127.0.0.1:9000", cfg.APIBind)

	_, err = LoadConfig(path, "bogus", "")
	require.Error(t, err)
}
