// Package postgres stores records in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

// Options tune the connection pool. Zero values use defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type siswaRow struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"column:id;type:text;uniqueIndex;not null"`
	Nama      string    `gorm:"column:nama;type:text;not null"`
	Alamat    string    `gorm:"column:alamat;type:text;not null"`
	Telpon    string    `gorm:"column:telpon;type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (siswaRow) TableName() string { return "siswa" }

func (r siswaRow) record() siswa.Record {
	return siswa.Record{ID: r.ID, Name: r.Nama, Address: r.Alamat, Phone: r.Telpon}
}

// Store is a store.Store backed by PostgreSQL.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects using dsn, applies pool settings and migrates the table.
func Open(dsn string, opts Options) (*Store, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := opts.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = defaultConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := gormDB.AutoMigrate(&siswaRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: gormDB}, nil
}

func (s *Store) List(ctx context.Context) ([]siswa.Record, error) {
	var rows []siswaRow
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list siswa: %w", err)
	}
	out := make([]siswa.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (siswa.Record, bool, error) {
	var row siswaRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return siswa.Record{}, false, nil
		}
		return siswa.Record{}, false, fmt.Errorf("get siswa %s: %w", id, err)
	}
	return row.record(), true, nil
}

func (s *Store) Insert(ctx context.Context, rec siswa.Record) (siswa.Record, error) {
	rec = rec.Normalized().WithID(store.NewID())
	row := siswaRow{ID: rec.ID, Nama: rec.Name, Alamat: rec.Address, Telpon: rec.Phone}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return siswa.Record{}, fmt.Errorf("insert siswa: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, rec siswa.Record) error {
	rec = rec.Normalized()
	res := s.db.WithContext(ctx).
		Model(&siswaRow{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"nama":       rec.Name,
			"alamat":     rec.Address,
			"telpon":     rec.Phone,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update siswa %s: %w", rec.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&siswaRow{}).Error; err != nil {
		return fmt.Errorf("delete siswa %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// truncate empties the table; tests use it to start from a clean slate.
func (s *Store) truncate(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("TRUNCATE TABLE siswa RESTART IDENTITY").Error
}
