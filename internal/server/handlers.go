package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/siswa/internal/api"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

// maxWait stays below the router timeout so long polls end with a response.
const maxWait = 25 * time.Second

type handlers struct {
	store *store.Watched
	log   logging.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// list answers immediately unless since equals the current version, in which
// case it holds the request until the next change or wait_ms passes. A cursor
// from an earlier server run never matches and gets a fresh listing.
func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	since, wait, err := parsePoll(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadRequest, err.Error())
		return
	}

	if since != 0 && since == h.store.Version() && wait > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), wait)
		_, err := h.store.Wait(ctx, since)
		cancel()
		if err != nil && r.Context().Err() != nil {
			return
		}
	}

	version := h.store.Version()
	items, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, "list records failed", err)
		return
	}
	if items == nil {
		items = []siswa.Record{}
	}
	writeJSON(w, http.StatusOK, api.ListResponse{Version: version, Items: items})
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.internalError(w, "get record failed", err, "id", id)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, api.CodeNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var in api.RecordInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json")
		return
	}
	rec := in.Record("")
	if !h.validate(w, rec) {
		return
	}

	stored, err := h.store.Insert(r.Context(), rec.Normalized())
	if err != nil {
		h.internalError(w, "insert record failed", err)
		return
	}
	h.log.Info("record created", "id", stored.ID)
	writeJSON(w, http.StatusCreated, api.CreateResponse{ID: stored.ID})
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in api.RecordInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json")
		return
	}
	rec := in.Record(id)
	if !h.validate(w, rec) {
		return
	}

	err := h.store.Update(r.Context(), rec.Normalized())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, api.CodeNotFound, "record not found")
		return
	}
	if err != nil {
		h.internalError(w, "update record failed", err, "id", id)
		return
	}
	h.log.Info("record updated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.internalError(w, "delete record failed", err, "id", id)
		return
	}
	h.log.Info("record deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) validate(w http.ResponseWriter, rec siswa.Record) bool {
	err := siswa.Validate(rec)
	if err == nil {
		return true
	}
	var vErr *siswa.ValidationError
	if !errors.As(err, &vErr) {
		h.internalError(w, "validate record failed", err)
		return false
	}
	writeJSON(w, http.StatusBadRequest, api.ErrorEnvelope{Error: api.ErrorBody{
		Code:    api.CodeValidation,
		Message: vErr.Error(),
		Fields:  vErr.Fields,
	}})
	return false
}

func (h *handlers) internalError(w http.ResponseWriter, message string, err error, args ...any) {
	h.log.InternalError(message, err, args...)
	writeError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
}

func parsePoll(r *http.Request) (uint64, time.Duration, error) {
	q := r.URL.Query()
	var since uint64
	if raw := q.Get(api.ParamSince); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, 0, errors.New("since must be a non-negative integer")
		}
		since = v
	}
	var wait time.Duration
	if raw := q.Get(api.ParamWaitMS); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return 0, 0, errors.New("wait_ms must be a non-negative integer")
		}
		wait = maxWait
		if ms < int(maxWait/time.Millisecond) {
			wait = time.Duration(ms) * time.Millisecond
		}
	}
	return since, wait, nil
}
