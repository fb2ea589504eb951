package verdict

import (
	"regexp"
	"strconv"

	"github.com/Avadhutgiri/judge-cli/api"
)

var numeralRe = regexp.MustCompile(`\d+`)

// Derive produces the per-test-case status sequence to reveal for a terminal
// submission verdict. Precedence: the backend's explicit list verbatim; an
// all-accepted sequence when the overall status is Accepted; a sequence
// split at the numeral in the failed-test-case label; otherwise nil, meaning
// there is nothing to animate.
//
// An empty status in the returned slice marks a test whose outcome is
// unknown (never reached).
func Derive(v Verdict, testCaseCount int) []api.Status {
	if len(v.TestCaseResults) > 0 {
		return v.TestCaseResults
	}

	if v.Status == api.StatusAccepted {
		seq := make([]api.Status, testCaseCount)
		for i := range seq {
			seq[i] = api.StatusAccepted
		}
		return seq
	}

	if v.FailedTestCase != "" {
		numeral := numeralRe.FindString(v.FailedTestCase)
		if numeral == "" {
			return nil
		}
		failedIndex, err := strconv.Atoi(numeral)
		if err != nil || failedIndex < 1 {
			return nil
		}
		seq := make([]api.Status, testCaseCount)
		for i := range seq {
			switch {
			case i+1 < failedIndex:
				seq[i] = api.StatusAccepted
			case i+1 == failedIndex:
				seq[i] = api.StatusWrongAnswer
			default:
				seq[i] = ""
			}
		}
		return seq
	}

	return nil
}
