package response

import (
	"time"

	"github.com/user/og-image-service/internal/entity"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// FailedLookupResponse is a DTO for one ledger row, mirroring entity.FailedLookup
type FailedLookupResponse struct {
	TargetURL      string    `json:"target_url"`
	Stage          string    `json:"stage"`
	FailureReason  string    `json:"failure_reason"`
	HTTPStatusCode int       `json:"http_status_code,omitempty"`
	LastAttemptAt  time.Time `json:"last_attempt_at"`
	AttemptCount   int       `json:"attempt_count"`
}

type FailuresResponse struct {
	Count    int                    `json:"count"`
	Failures []FailedLookupResponse `json:"failures"`
}

// NewFailuresResponse converts ledger rows into the response DTO.
func NewFailuresResponse(lookups []*entity.FailedLookup) FailuresResponse {
	resp := FailuresResponse{Failures: make([]FailedLookupResponse, 0, len(lookups))}
	for _, fl := range lookups {
		resp.Failures = append(resp.Failures, FailedLookupResponse{
			TargetURL:      fl.TargetURL,
			Stage:          string(fl.Stage),
			FailureReason:  fl.FailureReason,
			HTTPStatusCode: fl.HTTPStatusCode,
			LastAttemptAt:  fl.LastAttemptAt,
			AttemptCount:   fl.AttemptCount,
		})
	}
	resp.Count = len(resp.Failures)
	return resp
}
