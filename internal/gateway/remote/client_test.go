package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/siswa/internal/api"
	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/siswa"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, Options{LongPoll: 50 * time.Millisecond, RetryBase: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_CRUDRequests(t *testing.T) {
	t.Parallel()

	var (
		gotUserAgent string
		gotPut       api.RecordInput
		deleted      string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/siswa/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if r.PathValue("id") != "s1" {
			writeJSON(w, http.StatusNotFound, api.ErrorEnvelope{Error: api.ErrorBody{Code: api.CodeNotFound}})
			return
		}
		writeJSON(w, http.StatusOK, siswa.Record{ID: "s1", Name: "Budi", Address: "Jl. Mawar", Phone: "0812"})
	})
	mux.HandleFunc("POST /api/siswa", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, api.CreateResponse{ID: "new-id"})
	})
	mux.HandleFunc("PUT /api/siswa/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotPut)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/siswa/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	rec, found, err := c.GetByID(ctx, "s1")
	if err != nil || !found {
		t.Fatalf("GetByID = %v, %v, %v", rec, found, err)
	}
	if rec.Name != "Budi" {
		t.Fatalf("name = %q, want Budi", rec.Name)
	}
	if !strings.HasPrefix(gotUserAgent, "siswa/") {
		t.Fatalf("user agent = %q", gotUserAgent)
	}

	_, found, err = c.GetByID(ctx, "missing")
	if err != nil || found {
		t.Fatalf("GetByID(missing) found=%v err=%v, want absent", found, err)
	}

	id, err := c.Insert(ctx, siswa.Record{Name: "Sari", Address: "Jl. Melati", Phone: "0813"})
	if err != nil || id != "new-id" {
		t.Fatalf("Insert = %q, %v", id, err)
	}

	if err := c.Update(ctx, "s1", siswa.Record{ID: "ignored", Name: "Budi S", Address: "Jl. Mawar", Phone: "0812"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if gotPut.Name != "Budi S" {
		t.Fatalf("PUT body = %+v", gotPut)
	}

	if err := c.DeleteByID(ctx, "s1"); err != nil {
		t.Fatalf("DeleteByID returned error: %v", err)
	}
	if deleted != "s1" {
		t.Fatalf("deleted = %q, want s1", deleted)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/siswa", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, api.ErrorEnvelope{Error: api.ErrorBody{
			Code:    api.CodeValidation,
			Message: "invalid record",
			Fields:  map[string]string{siswa.FieldPhone: "required"},
		}})
	})
	mux.HandleFunc("PUT /api/siswa/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.ErrorEnvelope{Error: api.ErrorBody{Code: api.CodeNotFound}})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Insert(ctx, siswa.Record{Name: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Insert error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Body.Fields[siswa.FieldPhone] != "required" {
		t.Fatalf("APIError = %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "invalid record") {
		t.Fatalf("message = %q", apiErr.Error())
	}

	err = c.Update(ctx, "gone", siswa.Record{Name: "x", Address: "y", Phone: "1"})
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("Update error = %v, want gateway.ErrNotFound", err)
	}
}

func TestClient_NilClient(t *testing.T) {
	var c *Client
	if _, _, err := c.GetByID(context.Background(), "x"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := c.DeleteByID(context.Background(), "x"); err == nil {
		t.Fatal("expected error from nil client")
	}
}
