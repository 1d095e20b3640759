package scorm

// SCORM 1.2 runtime error codes. Codes travel as numeric strings, matching
// the LMSGetLastError convention.
const (
	ErrNoError          = "0"
	ErrGeneralException = "101"
	ErrInvalidArgument  = "201"
	ErrNotInitialized   = "301"
)

var errorTexts = map[string]string{
	ErrNoError:          "No error",
	ErrGeneralException: "General exception",
	ErrInvalidArgument:  "Invalid argument error",
	ErrNotInitialized:   "Not initialized",
}

// ErrorText returns the human-readable description of a runtime error code,
// or an empty string for unknown codes.
func ErrorText(code string) string {
	return errorTexts[code]
}
