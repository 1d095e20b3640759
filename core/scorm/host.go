package scorm

// HostAPI is the synchronous tracking API a hosting context exposes to
// embedded content. Every operation returns a string; lifecycle and write
// operations answer with the literals "true"/"false" per the SCORM 1.2 call
// convention. The string-boolean marshalling stays at this boundary: nothing
// above it handles "true"/"false" directly.
type HostAPI interface {
	Initialize(param string) string
	Terminate(param string) string
	GetValue(element string) string
	SetValue(element, value string) string
	Commit(param string) string
	GetLastError() string
	GetErrorString(code string) string
	GetDiagnostic(code string) string
}

// hostBool converts a host "true"/"false" answer to a real boolean.
// Anything other than the literal "true" counts as failure.
func hostBool(s string) bool { return s == "true" }

// hostString converts a boolean back to the host wire convention.
func hostString(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}
