package api

// RunRequest executes code against the sample tests or a custom input.
type RunRequest struct {
	ProblemID string `json:"problem_id"`

	// Code is the codec-encoded source text.
	Code     string `json:"code"`
	Language string `json:"language"`

	// CustomTestcase replaces the sample input when set.
	CustomTestcase *string `json:"customTestcase,omitempty"`
}

// SubmitRequest submits code for judging against the full test set.
type SubmitRequest struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

// SystemRunRequest runs the reference solution, optionally on a custom input.
type SystemRunRequest struct {
	ProblemID      string  `json:"problem_id"`
	CustomTestcase *string `json:"customTestcase,omitempty"`
}

// SubmissionAccepted is the backend's acknowledgement of any of the three
// request kinds. The id is the correlation key for all result delivery.
type SubmissionAccepted struct {
	SubmissionID string `json:"submission_id"`
}

// LoginRequest authenticates a user and establishes a session cookie.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
