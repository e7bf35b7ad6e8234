package app

import (
	"fmt"
	"time"

	"github.com/five82/siswa/internal/config"
	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/gateway/local"
	"github.com/five82/siswa/internal/gateway/remote"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
	"github.com/five82/siswa/internal/store/memory"
	"github.com/five82/siswa/internal/store/postgres"
	"github.com/five82/siswa/internal/store/sqlite"
)

// SampleRecords seed an empty store when seed = true.
var SampleRecords = []siswa.Record{
	{Name: "Ani Lestari", Address: "Jl. Mawar No. 1, Bandung", Phone: "081234567801"},
	{Name: "Budi Santoso", Address: "Jl. Melati No. 7, Bogor", Phone: "081234567802"},
	{Name: "Citra Dewi", Address: "Jl. Kenanga No. 12, Depok", Phone: "+6281234567803"},
}

// OpenStore opens the store backing cfg.Driver. The remote driver has no
// local store.
func OpenStore(cfg config.Config) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		if cfg.Seed {
			return memory.New(SampleRecords...), nil
		}
		return memory.New(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Open(cfg.PostgresDSN, postgres.Options{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("driver %q has no local store", cfg.Driver)
	}
}

// OpenGateway builds the gateway for cfg. The returned func releases
// whatever the gateway holds.
func OpenGateway(cfg config.Config, log logging.Logger) (gateway.Gateway, func() error, error) {
	if cfg.Driver == config.DriverRemote {
		client, err := remote.NewClient(cfg.APIBind, remote.Options{LongPoll: cfg.LongPoll, Logger: log})
		if err != nil {
			return nil, nil, fmt.Errorf("init remote gateway: %w", err)
		}
		return client, func() error { return nil }, nil
	}

	s, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return local.New(store.Watch(s), log), s.Close, nil
}
