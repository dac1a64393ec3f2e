package domain

import "time"

// CheckStatus is the outcome of a single startup check.
type CheckStatus string

const (
	CheckStatusPass CheckStatus = "pass"
	CheckStatusFail CheckStatus = "fail"
)

// CheckResult reports one startup check: an encoder tool probe, the scratch
// space write test, or saved-settings validation.
type CheckResult struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// StartupReport aggregates check results shown alongside the compression
// form.
type StartupReport struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	HasFailures bool          `json:"hasFailures"`
	Checks      []CheckResult `json:"checks"`
}
