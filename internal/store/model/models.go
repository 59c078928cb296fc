package model

import (
	"database/sql"
	"time"
)

// Decision values recorded for a resolution.
const (
	DecisionServed      = "served"
	DecisionRestricted  = "restricted"
	DecisionUnsupported = "unsupported"
)

// Source values describe where the winning capability record came from.
const (
	SourceBuiltin = "builtin"
	SourceCustom  = "custom"
	SourceNone    = "none"
)

// APIKey is the credential used to access the API.
type APIKey struct {
	ID         string       `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	KeyHash    string       `db:"key_hash" json:"-"`            // Never return hash
	KeyPrefix  string       `db:"key_prefix" json:"key_prefix"` // Display only
	LastUsedAt sql.NullTime `db:"last_used_at" json:"last_used_at,omitempty"`
	IsActive   bool         `db:"is_active" json:"is_active"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// ResolutionLog captures one model-name resolution decision: what the caller
// asked for, what it resolved to, and how the request was disposed of.
type ResolutionLog struct {
	ID             string    `db:"id" json:"id"`
	RequestedModel string    `db:"requested_model" json:"requested_model"`
	CanonicalModel string    `db:"canonical_model" json:"canonical_model"`
	ProviderKind   string    `db:"provider_kind" json:"provider_kind"`
	Decision       string    `db:"decision" json:"decision"`
	Source         string    `db:"source" json:"source"`
	LatencyMS      int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// DecisionStats represents per-day counts of resolution outcomes.
type DecisionStats struct {
	Date        string `db:"date" json:"date"`
	Served      int    `db:"served" json:"served"`
	Restricted  int    `db:"restricted" json:"restricted"`
	Unsupported int    `db:"unsupported" json:"unsupported"`
}
