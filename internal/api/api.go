// Package api holds the JSON wire shapes and paths shared by the siswad server
// and the remote gateway.
package api

import "github.com/five82/siswa/internal/siswa"

const (
	// CollectionPath lists and creates records.
	CollectionPath = "/api/siswa"
	// HealthPath reports liveness.
	HealthPath = "/api/health"

	// ParamSince is the change-feed cursor for long-polling the collection.
	ParamSince = "since"
	// ParamWaitMS bounds how long the server holds a long-poll open.
	ParamWaitMS = "wait_ms"
)

// RecordPath addresses one record.
func RecordPath(id string) string {
	return CollectionPath + "/" + id
}

// ListResponse mirrors GET /api/siswa.
type ListResponse struct {
	Version uint64         `json:"version"`
	Items   []siswa.Record `json:"items"`
}

// CreateResponse mirrors POST /api/siswa.
type CreateResponse struct {
	ID string `json:"id"`
}

// RecordInput is the body of POST and PUT; the id comes from the path.
type RecordInput struct {
	Name    string `json:"nama"`
	Address string `json:"alamat"`
	Phone   string `json:"telpon"`
}

// Record converts the body into a record addressed at id.
func (in RecordInput) Record(id string) siswa.Record {
	return siswa.Record{ID: id, Name: in.Name, Address: in.Address, Phone: in.Phone}
}

// InputFrom strips the id from rec.
func InputFrom(rec siswa.Record) RecordInput {
	return RecordInput{Name: rec.Name, Address: rec.Address, Phone: rec.Phone}
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request. Fields is set for validation failures.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error codes.
const (
	CodeInvalidJSON = "invalid_json"
	CodeValidation  = "validation_failed"
	CodeNotFound    = "not_found"
	CodeBadRequest  = "bad_request"
	CodeInternal    = "internal_error"
)
