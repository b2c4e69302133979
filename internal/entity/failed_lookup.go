package entity

import "time"

// Stage names the pipeline step a lookup stopped at.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageHostPolicy Stage = "host_policy"
	StageRateLimit  Stage = "rate_limit"
	StageFetchPage  Stage = "fetch_page"
	StageExtract    Stage = "extract"
	StageFetchImage Stage = "fetch_image"
)

// FailedLookup mirrors the `failed_lookups` PostgreSQL table schema.
type FailedLookup struct {
	ID             int64
	TargetURL      string
	Stage          Stage
	FailureReason  string
	HTTPStatusCode int
	LastAttemptAt  time.Time
	AttemptCount   int
}
