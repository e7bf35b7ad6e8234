package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/five82/siswa/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	dsn := os.Getenv("SISWA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SISWA_TEST_POSTGRES_DSN not set")
	}
	s, err := Open(dsn, Options{MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.truncate(context.Background()); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	storetest.Run(t, s)
}

func TestRowMapping(t *testing.T) {
	row := siswaRow{ID: "42", Nama: "Ani", Alamat: "Jl. A", Telpon: "0812"}
	rec := row.record()
	if rec.ID != "42" || rec.Name != "Ani" || rec.Address != "Jl. A" || rec.Phone != "0812" {
		t.Fatalf("record() = %#v", rec)
	}
	if (siswaRow{}).TableName() != "siswa" {
		t.Fatalf("TableName = %q", (siswaRow{}).TableName())
	}
}
