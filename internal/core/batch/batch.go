// Package batch contains the pure rules of a certificate batch: which
// recipients may enter the pipeline and how per-recipient results are
// aggregated into the batch outcome.
package batch

import (
	"fmt"
	"strings"
)

// ReasonMissingFields is reported for recipients without a name or email.
const ReasonMissingFields = "Missing required fields"

// UnknownEmail stands in for a recipient row that has no email.
const UnknownEmail = "unknown"

// Step names one stage of the per-recipient pipeline.
type Step string

const (
	StepResolveDestination Step = "resolve_destination"
	StepAllocate           Step = "allocate"
	StepFetchBackground    Step = "fetch_background"
	StepRender             Step = "render"
	StepPublish            Step = "publish"
	StepRecordAudit        Step = "record_audit"
	StepArchive            Step = "archive"
	StepNotify             Step = "notify"
)

// Recipient is one row of the submitted batch.
type Recipient struct {
	FullName string
	Email    string
}

// Result is the outcome of one recipient.
type Result struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Error   string `json:"error,omitempty"`
}

// Outcome summarizes a whole batch.
type Outcome struct {
	Processed int      `json:"processed"`
	Successes int      `json:"successes"`
	Failures  int      `json:"failures"`
	Details   []Result `json:"details"`
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanProcessRecipient evaluates whether a recipient may enter the pipeline.
// Rules:
// - Full name must not be empty
// - Email must not be empty
func CanProcessRecipient(r Recipient) GuardResult {
	if strings.TrimSpace(r.FullName) == "" || strings.TrimSpace(r.Email) == "" {
		return GuardResult{Allowed: false, Reason: ReasonMissingFields}
	}
	return GuardResult{Allowed: true}
}

// ReportedEmail is the email to surface in a result for r.
func ReportedEmail(r Recipient) string {
	if strings.TrimSpace(r.Email) == "" {
		return UnknownEmail
	}
	return r.Email
}

// Succeeded builds a success result.
func Succeeded(email string) Result {
	return Result{Success: true, Email: email}
}

// Failed builds a failure result carrying err's message verbatim.
func Failed(email string, err error) Result {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Success: false, Email: email, Error: msg}
}

// Summarize aggregates ordered per-recipient results.
func Summarize(results []Result) Outcome {
	out := Outcome{
		Processed: len(results),
		Details:   make([]Result, len(results)),
	}
	copy(out.Details, results)
	for _, r := range results {
		if r.Success {
			out.Successes++
		} else {
			out.Failures++
		}
	}
	return out
}
