package attempt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CMI elements handled on the core attempt record. Collection elements
// (cmi.interactions.*, cmi.objectives.*) are matched separately.
const (
	elemLessonStatus   = "cmi.core.lesson_status"
	elemScoreRaw       = "cmi.core.score.raw"
	elemScoreMin       = "cmi.core.score.min"
	elemScoreMax       = "cmi.core.score.max"
	elemLessonLocation = "cmi.core.lesson_location"
	elemCredit         = "cmi.core.credit"
	elemEntry          = "cmi.core.entry"
	elemTotalTime      = "cmi.core.total_time"
	elemSessionTime    = "cmi.core.session_time"
	elemExit           = "cmi.core.exit"
	elemStudentID      = "cmi.core.student_id"
	elemStudentName    = "cmi.core.student_name"
	elemVersion        = "cmi.core._version"
	elemSuspendData    = "cmi.suspend_data"
	elemLaunchData     = "cmi.launch_data"

	cmiVersion = "3.4"

	maxLocationLen = 255
	maxExitLen     = 20
)

var (
	interactionRegex = regexp.MustCompile(`^cmi\.interactions\.(\d+)\.(.+)$`)
	objectiveRegex   = regexp.MustCompile(`^cmi\.objectives\.(\d+)\.(.+)$`)
)

// getCoreElement reads a core data model element off an attempt. Unknown
// elements read as empty strings; the runtime contract has no failing reads.
func getCoreElement(a *Attempt, element string) string {
	switch element {
	case elemLessonStatus:
		return a.LessonStatus
	case elemScoreRaw:
		if a.ScoreRaw == nil {
			return ""
		}
		return formatFloat(*a.ScoreRaw)
	case elemScoreMin:
		return formatFloat(a.ScoreMin)
	case elemScoreMax:
		return formatFloat(a.ScoreMax)
	case elemLessonLocation:
		return a.LessonLocation
	case elemCredit:
		return a.Credit
	case elemEntry:
		return a.Entry
	case elemTotalTime:
		return FormatTimespan(a.TotalTime)
	case elemSessionTime:
		return FormatTimespan(a.SessionTime)
	case elemExit:
		return a.ExitMode
	case elemSuspendData:
		return a.SuspendData
	case elemStudentID:
		return a.LearnerID
	case elemStudentName:
		return a.LearnerName
	case elemVersion:
		return cmiVersion
	}
	return ""
}

// applyCoreElement writes a core data model element onto an attempt,
// reporting whether the value was accepted. Read-only and unknown elements
// are rejected vs. accepted the way the data model dictates: writes to
// unknown elements are tolerated (and dropped), writes of malformed values
// to known elements are refused.
func applyCoreElement(a *Attempt, element, value string) bool {
	switch element {
	case elemLessonStatus:
		if !validStatus(value) {
			return false
		}
		a.LessonStatus = value
	case elemScoreRaw:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		a.ScoreRaw = &f
	case elemScoreMin:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		a.ScoreMin = f
	case elemScoreMax:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		a.ScoreMax = f
	case elemLessonLocation:
		a.LessonLocation = truncate(value, maxLocationLen)
	case elemExit:
		a.ExitMode = truncate(value, maxExitLen)
	case elemSessionTime:
		d, err := ParseTimespan(value)
		if err != nil {
			return false
		}
		a.SessionTime = d
	case elemSuspendData:
		a.SuspendData = value
	case elemStudentID, elemStudentName, elemVersion, elemCredit, elemEntry, elemTotalTime:
		// read-only elements
		return false
	default:
		// unknown elements are accepted and dropped
	}
	return true
}

// applyInteractionField merges one cmi.interactions.N.<field> write into an
// interaction record.
func applyInteractionField(in *Interaction, field, value string) bool {
	switch {
	case field == "id":
		in.InteractionID = value
	case field == "type":
		in.Type = value
	case field == "student_response":
		in.LearnerResponse = value
	case field == "result":
		in.Result = value
	case field == "weighting":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		in.Weighting = f
	case field == "latency":
		d, err := ParseTimespan(value)
		if err != nil {
			return false
		}
		in.Latency = d
	case field == "time":
		// wall-clock time of the interaction, HH:MM:SS
		t, err := time.Parse("15:04:05", value)
		if err != nil {
			return false
		}
		now := time.Now().UTC()
		in.Timestamp = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	case strings.HasPrefix(field, "correct_responses.") && strings.HasSuffix(field, ".pattern"):
		in.CorrectResponses = append(in.CorrectResponses, value)
	case strings.HasPrefix(field, "objectives."):
		// interaction-to-objective links are not tracked
	default:
		return false
	}
	return true
}

// applyObjectiveField merges one cmi.objectives.N.<field> write into an
// objective record.
func applyObjectiveField(ob *Objective, field, value string) bool {
	switch field {
	case "id":
		ob.ObjectiveID = value
	case "status":
		if !validStatus(value) {
			return false
		}
		ob.Status = value
	case "score.raw":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		ob.ScoreRaw = &f
	case "score.min":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		ob.ScoreMin = f
	case "score.max":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		ob.ScoreMax = f
	default:
		return false
	}
	return true
}

// getObjectiveField reads a cmi.objectives.N.<field> element.
func getObjectiveField(ob *Objective, field string) string {
	switch field {
	case "id":
		return ob.ObjectiveID
	case "status":
		return ob.Status
	case "score.raw":
		if ob.ScoreRaw == nil {
			return ""
		}
		return formatFloat(*ob.ScoreRaw)
	case "score.min":
		return formatFloat(ob.ScoreMin)
	case "score.max":
		return formatFloat(ob.ScoreMax)
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
