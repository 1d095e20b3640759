package scorm

import "fmt"

// sessionState tracks the bridge lifecycle. Transitions are monotonic:
// uninitialized -> initialized -> terminated, and never backwards.
type sessionState int

const (
	stateUninitialized sessionState = iota
	stateInitialized
	stateTerminated
)

// OperationResult is the normalized outcome handed back to content code for
// every bridge operation, whatever the host did or whether one exists at
// all. ErrorCode is only set on failed operations.
type OperationResult struct {
	OK        bool
	Value     string
	ErrorCode string
}

// Bridge wraps a host tracking API behind a safe facade that never panics
// for host-related failures. One Bridge serves one loaded content instance;
// create a new one per load. A Bridge is not safe for concurrent use: the
// contract it wraps is single-threaded and synchronous.
type Bridge struct {
	win       Window
	discovery Discovery

	state      sessionState
	resolved   bool
	host       HostAPI
	initOK     bool
	localError string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithMaxHops overrides the discovery hop limit.
func WithMaxHops(n int) Option {
	return func(b *Bridge) { b.discovery.MaxHops = n }
}

// NewBridge returns a Bridge that will discover the tracking API from win.
// Discovery is lazy: the walk happens on the first lifecycle or data call,
// and at most once per Bridge.
func NewBridge(win Window, opts ...Option) *Bridge {
	b := &Bridge{
		win:        win,
		localError: ErrNoError,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// resolveHost performs the discovery walk once and memoizes the outcome,
// including "not found".
func (b *Bridge) resolveHost() HostAPI {
	if !b.resolved {
		b.host, _ = b.discovery.Locate(b.win)
		b.resolved = true
	}
	return b.host
}

// HostFound reports whether a host API was discovered. It is only
// meaningful after the first lifecycle or data call.
func (b *Bridge) HostFound() bool { return b.host != nil }

// DoInitialize begins the tracking session. It is idempotent: once the
// session has left the uninitialized state the first call's result is
// returned again and the host is not contacted. Without a reachable host
// the session still comes up and reports success (standalone/preview mode).
// A host-side rejection is surfaced as a failed result; the bridge never
// retries on its own.
func (b *Bridge) DoInitialize() OperationResult {
	if b.state != stateUninitialized {
		return b.boolResult(b.initOK)
	}
	ok := true
	if host := b.resolveHost(); host != nil {
		ok = hostBool(host.Initialize(""))
	}
	b.state = stateInitialized
	b.initOK = ok
	b.localError = ErrNoError
	return b.boolResult(ok)
}

// DoFinish ends the tracking session. The session always lands in the
// terminated state, even when the host rejects the call: once content is
// unloading there is nothing useful left to retry. Calling DoFinish again
// after that is a successful no-op.
func (b *Bridge) DoFinish() OperationResult {
	if b.state == stateTerminated {
		return OperationResult{OK: true}
	}
	ok := true
	if host := b.resolveHost(); host != nil {
		ok = hostBool(host.Terminate(""))
	}
	b.state = stateTerminated
	b.localError = ErrNoError
	return b.boolResult(ok)
}

// DoGetValue reads a tracking datum. The session auto-initializes if needed:
// content may read before explicitly initializing. With no host the read
// succeeds with an empty value. The element name is an opaque key; the
// bridge does not interpret it.
func (b *Bridge) DoGetValue(element string) OperationResult {
	if element == "" {
		return b.localFail(ErrInvalidArgument)
	}
	if res, ok := b.ensureLive(); !ok {
		return res
	}
	b.localError = ErrNoError
	if b.host == nil {
		return OperationResult{OK: true, Value: ""}
	}
	return OperationResult{OK: true, Value: b.host.GetValue(element)}
}

// DoSetValue writes a tracking datum. The value is coerced to its string
// representation before forwarding; the wire contract between content and
// host is string-valued. With no host the write is a successful no-op.
func (b *Bridge) DoSetValue(element string, value interface{}) OperationResult {
	if element == "" {
		return b.localFail(ErrInvalidArgument)
	}
	if res, ok := b.ensureLive(); !ok {
		return res
	}
	b.localError = ErrNoError
	if b.host == nil {
		return OperationResult{OK: true}
	}
	return b.boolResult(hostBool(b.host.SetValue(element, fmt.Sprint(value))))
}

// DoCommit asks the host to flush buffered tracking data. It does not change
// the session state, and is a successful no-op without a host.
func (b *Bridge) DoCommit() OperationResult {
	if res, ok := b.ensureLive(); !ok {
		return res
	}
	b.localError = ErrNoError
	if b.host == nil {
		return OperationResult{OK: true}
	}
	return b.boolResult(hostBool(b.host.Commit("")))
}

// GetLastError returns the current error code: a bridge-local code when the
// last failure happened on this side (bad argument, call after DoFinish),
// the host's own code otherwise, and "0" when neither applies. It lets
// callers tell a legitimately empty value from a failed read.
func (b *Bridge) GetLastError() string {
	if b.localError != ErrNoError {
		return b.localError
	}
	if b.host != nil {
		return b.host.GetLastError()
	}
	return ErrNoError
}

// GetErrorString resolves an error code to text, delegating to the host when
// one was found.
func (b *Bridge) GetErrorString(code string) string {
	if b.host != nil {
		return b.host.GetErrorString(code)
	}
	return ErrorText(code)
}

// GetDiagnostic returns vendor diagnostic information for a code, or an
// empty string without a host.
func (b *Bridge) GetDiagnostic(code string) string {
	if b.host != nil {
		return b.host.GetDiagnostic(code)
	}
	return ""
}

// ensureLive prepares the session for a data operation. Data and commit
// calls after DoFinish are local failures with ErrNotInitialized: the host
// is never contacted for them.
func (b *Bridge) ensureLive() (OperationResult, bool) {
	if b.state == stateTerminated {
		return b.localFail(ErrNotInitialized), false
	}
	if b.state == stateUninitialized {
		b.DoInitialize()
	}
	return OperationResult{}, true
}

func (b *Bridge) localFail(code string) OperationResult {
	b.localError = code
	return OperationResult{ErrorCode: code}
}

func (b *Bridge) boolResult(ok bool) OperationResult {
	if ok {
		return OperationResult{OK: true}
	}
	return OperationResult{OK: false, ErrorCode: b.GetLastError()}
}
