package verdict_test

import (
	"testing"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/Avadhutgiri/judge-cli/internal/verdict"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeRunDefaults(t *testing.T) {
	v := verdict.NormalizeRun(verdict.Payload{Status: api.StatusAccepted})
	require.Equal(t, api.StatusAccepted, v.Status)
	require.Equal(t, "", v.UserOutput)
	require.Equal(t, "", v.ExpectedOutput)
	require.False(t, v.IsSubmission)
}

func TestNormalizeSubmissionDefaults(t *testing.T) {
	v := verdict.NormalizeSubmission(verdict.Payload{
		Status:  api.StatusWrongAnswer,
		Message: "output mismatch",
	})
	require.Equal(t, api.StatusWrongAnswer, v.Status)
	require.Equal(t, "", v.FailedTestCase)
	require.True(t, v.IsSubmission)
}

func TestFromPoll(t *testing.T) {
	p := verdict.FromPoll(api.PollResponse{
		Status:         api.StatusRuntimeError,
		Message:        "segfault",
		UserOutput:     strPtr("partial"),
		FailedTestCase: strPtr("Test 2"),
	})
	require.Equal(t, api.StatusRuntimeError, p.Status)
	require.Equal(t, "partial", *p.UserOutput)
	require.Equal(t, "Test 2", *p.FailedTestCase)
}

func TestFormatForDisplay(t *testing.T) {
	require.Equal(t, verdict.PendingPlaceholder, verdict.FormatForDisplay(nil))

	accepted := &verdict.Verdict{
		Status:       api.StatusAccepted,
		IsSubmission: true,
	}
	require.Equal(t, "Status: Accepted", verdict.FormatForDisplay(accepted))
	// pure: same input, same output
	require.Equal(t, "Status: Accepted", verdict.FormatForDisplay(accepted))

	failed := &verdict.Verdict{
		Status:         api.StatusWrongAnswer,
		Message:        "mismatch on line 1",
		FailedTestCase: "Test 3",
		IsSubmission:   true,
	}
	require.Equal(t,
		"Status: Wrong Answer\nMessage: mismatch on line 1\nFailed Test Case: Test 3",
		verdict.FormatForDisplay(failed))

	run := &verdict.Verdict{Status: api.StatusAccepted, UserOutput: "42\n"}
	require.Equal(t, "42\n", verdict.FormatForDisplay(run))

	silent := &verdict.Verdict{Status: api.StatusAccepted}
	require.Equal(t, verdict.NoOutputPlaceholder, verdict.FormatForDisplay(silent))
}

func TestDeriveExplicitList(t *testing.T) {
	v := verdict.Verdict{
		Status:          api.StatusWrongAnswer,
		IsSubmission:    true,
		TestCaseResults: []api.Status{api.StatusAccepted, api.StatusWrongAnswer},
	}
	require.Equal(t,
		[]api.Status{api.StatusAccepted, api.StatusWrongAnswer},
		verdict.Derive(v, 5))
}

func TestDeriveAllAccepted(t *testing.T) {
	v := verdict.Verdict{Status: api.StatusAccepted, IsSubmission: true}
	seq := verdict.Derive(v, 5)
	require.Len(t, seq, 5)
	for _, s := range seq {
		require.Equal(t, api.StatusAccepted, s)
	}
}

func TestDeriveFailedTestCase(t *testing.T) {
	v := verdict.Verdict{
		Status:         api.StatusWrongAnswer,
		FailedTestCase: "Test 3",
		IsSubmission:   true,
	}
	require.Equal(t, []api.Status{
		api.StatusAccepted,
		api.StatusAccepted,
		api.StatusWrongAnswer,
		"",
		"",
	}, verdict.Derive(v, 5))
}

func TestDeriveNothingToSynthesize(t *testing.T) {
	v := verdict.Verdict{Status: api.StatusCompilationError, IsSubmission: true}
	require.Nil(t, verdict.Derive(v, 5))

	labelWithoutNumeral := verdict.Verdict{
		Status:         api.StatusWrongAnswer,
		FailedTestCase: "hidden test",
		IsSubmission:   true,
	}
	require.Nil(t, verdict.Derive(labelWithoutNumeral, 5))
}

func TestInfoForUnknownStatus(t *testing.T) {
	info := verdict.InfoFor("")
	require.Equal(t, "⬜", info.Icon)

	info = verdict.InfoFor(api.StatusAccepted)
	require.Equal(t, "✅", info.Icon)
}
