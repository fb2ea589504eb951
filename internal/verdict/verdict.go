// Package verdict maps the backend's heterogeneous result payloads into one
// local shape consumed by the rest of the client.
package verdict

import (
	"github.com/Avadhutgiri/judge-cli/api"
)

// Verdict is the normalized result record. Absent payload fields become
// empty strings so downstream code never probes for nil.
type Verdict struct {
	Status  api.Status
	Message string

	UserOutput     string
	ExpectedOutput string

	// FailedTestCase is a label such as "Test 3", empty when none.
	FailedTestCase string

	IsSubmission bool

	// TestCaseResults holds the backend's explicit per-test outcomes when it
	// supplied them. Empty otherwise; see Derive for the synthesized form.
	TestCaseResults []api.Status
}

// Payload is the union of fields either delivery path may carry. The poll
// endpoint and the push channel send the same logical record with slightly
// different framing.
type Payload struct {
	Status  api.Status
	Message string

	UserOutput     *string
	ExpectedOutput *string
	FailedTestCase *string

	TestCaseResults []api.Status
}

// FromPoll adapts a status-endpoint response.
func FromPoll(r api.PollResponse) Payload {
	return Payload{
		Status:          r.Status,
		Message:         r.Message,
		UserOutput:      r.UserOutput,
		ExpectedOutput:  r.ExpectedOutput,
		FailedTestCase:  r.FailedTestCase,
		TestCaseResults: r.TestCaseResults,
	}
}

// FromPush adapts a real-time channel message.
func FromPush(m api.ResultMessage) Payload {
	return Payload{
		Status:          m.Status,
		Message:         m.Message,
		UserOutput:      m.UserOutput,
		ExpectedOutput:  m.ExpectedOutput,
		FailedTestCase:  m.FailedTestCase,
		TestCaseResults: m.TestCaseResults,
	}
}

// NormalizeRun builds the verdict for a run or system-test operation.
func NormalizeRun(p Payload) Verdict {
	return Verdict{
		Status:         p.Status,
		Message:        p.Message,
		UserOutput:     orEmpty(p.UserOutput),
		ExpectedOutput: orEmpty(p.ExpectedOutput),
		IsSubmission:   false,
	}
}

// NormalizeSubmission builds the verdict for a submit operation.
func NormalizeSubmission(p Payload) Verdict {
	return Verdict{
		Status:          p.Status,
		Message:         p.Message,
		FailedTestCase:  orEmpty(p.FailedTestCase),
		IsSubmission:    true,
		TestCaseResults: p.TestCaseResults,
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
