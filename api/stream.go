package api

import "fmt"

// OpType discriminates push messages by the operation that produced them.
type OpType string

const (
	OpRun    OpType = "run"
	OpSubmit OpType = "submit"
	OpSystem OpType = "system"
)

// SubjectPrefix is the broker subject namespace for result delivery.
const SubjectPrefix = "submissions"

// ResultSubject returns the broker subject carrying results for one
// submission id. Subscription is per-id so concurrent operations do not
// consume each other's messages.
func ResultSubject(submissionID string) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, submissionID)
}

// ResultMessage is the single terminal event the server pushes per
// submission id over the real-time channel.
type ResultMessage struct {
	SubmissionID string `json:"submission_id"`
	Type         OpType `json:"type"`

	Status  Status `json:"status"`
	Message string `json:"message"`

	UserOutput     *string `json:"user_output,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
	FailedTestCase *string `json:"failed_test_case,omitempty"`

	TestCaseResults []Status `json:"test_case_results,omitempty"`
}
