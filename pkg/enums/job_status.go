package enums

import "fmt"

// JobStatus describes the lifecycle of a job (quote/estimate) record.
type JobStatus string

const (
	JobStatusDraft    JobStatus = "draft"
	JobStatusSent     JobStatus = "sent"
	JobStatusApproved JobStatus = "approved"
	JobStatusDeclined JobStatus = "declined"
)

var validJobStatuses = []JobStatus{
	JobStatusDraft,
	JobStatusSent,
	JobStatusApproved,
	JobStatusDeclined,
}

// IsValid reports whether the value matches the canonical job status enum.
func (s JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseJobStatus converts the raw string to JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
