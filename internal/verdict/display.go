package verdict

import (
	"strings"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/fatih/color"
)

const (
	// NoOutputPlaceholder is shown when a run produced no output.
	NoOutputPlaceholder = "No output generated."

	// PendingPlaceholder is shown before any verdict exists.
	PendingPlaceholder = "Output will appear here..."
)

// FormatForDisplay renders a verdict as plain text. Submission verdicts list
// their non-empty fields each on its own line; run verdicts print the user
// output. Pure function, safe to call repeatedly.
func FormatForDisplay(v *Verdict) string {
	if v == nil {
		return PendingPlaceholder
	}

	if v.IsSubmission {
		var lines []string
		if v.Status != "" {
			lines = append(lines, "Status: "+string(v.Status))
		}
		if v.Message != "" {
			lines = append(lines, "Message: "+v.Message)
		}
		if v.FailedTestCase != "" {
			lines = append(lines, "Failed Test Case: "+v.FailedTestCase)
		}
		return strings.Join(lines, "\n")
	}

	if v.UserOutput == "" {
		return NoOutputPlaceholder
	}
	return v.UserOutput
}

// StatusInfo carries the terminal decoration for one status.
type StatusInfo struct {
	Icon  string
	Color *color.Color
}

var statusInfos = map[api.Status]StatusInfo{
	api.StatusAccepted:            {Icon: "✅", Color: color.New(color.FgGreen)},
	api.StatusWrongAnswer:         {Icon: "❌", Color: color.New(color.FgRed)},
	api.StatusTimeLimitExceeded:   {Icon: "⏱", Color: color.New(color.FgYellow)},
	api.StatusRuntimeError:        {Icon: "💥", Color: color.New(color.FgHiRed)},
	api.StatusCompilationError:    {Icon: "🔧", Color: color.New(color.FgMagenta)},
	api.StatusMemoryLimitExceeded: {Icon: "📈", Color: color.New(color.FgBlue)},
}

var unknownStatusInfo = StatusInfo{Icon: "⬜", Color: color.New(color.Faint)}

// InfoFor returns the decoration for a status, falling back to a neutral
// placeholder for unknown or pending statuses.
func InfoFor(status api.Status) StatusInfo {
	if info, ok := statusInfos[status]; ok {
		return info
	}
	return unknownStatusInfo
}
