package api

// Status is an overall or per-test judging outcome.
type Status string

const (
	StatusAccepted            Status = "Accepted"
	StatusWrongAnswer         Status = "Wrong Answer"
	StatusTimeLimitExceeded   Status = "Time Limit Exceeded"
	StatusRuntimeError        Status = "Runtime Error"
	StatusCompilationError    Status = "Compilation Error"
	StatusMemoryLimitExceeded Status = "Memory Limit Exceeded"

	// StatusPending means the verdict is not yet terminal; polling only.
	StatusPending Status = "Pending"
)

// PollResponse is the status endpoint's payload for one submission id.
// Every field except status may be absent depending on the operation kind.
type PollResponse struct {
	Status  Status `json:"status"`
	Message string `json:"message"`

	UserOutput     *string `json:"user_output,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`

	// FailedTestCase is a human-readable label such as "Test 3".
	FailedTestCase *string `json:"failed_test_case,omitempty"`

	// TestCaseResults, when present, is the authoritative per-test outcome
	// list in test order.
	TestCaseResults []Status `json:"test_case_results,omitempty"`
}

// HistoryEntry is one past submission as returned by the history endpoint.
type HistoryEntry struct {
	Language    string `json:"language"`
	Result      Status `json:"result"`
	SubmittedAt string `json:"submitted_at"`

	// Code is codec-encoded, same transform as on submit.
	Code string `json:"code"`
}

// Sample is one statement example of input and expected output.
type Sample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Problem is the statement payload.
type Problem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Statement string   `json:"statement"`
	Samples   []Sample `json:"samples"`

	// TestCaseCount is an estimate used for reveal placeholders; zero when
	// the backend does not disclose it.
	TestCaseCount int `json:"test_case_count,omitempty"`
}

// ProblemSummary is one row of the problem listing.
type ProblemSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// LeaderboardRow is one ranked team on the scoreboard.
type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	TeamName string `json:"team_name"`
	Score    int    `json:"score"`
	Solved   int    `json:"solved"`
}

// User is the authenticated session's identity.
type User struct {
	Username string `json:"username"`
	TeamName string `json:"team_name,omitempty"`
}
