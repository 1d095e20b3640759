package scorm

import "testing"

func TestInitializeIdempotent(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))

	first := b.DoInitialize()
	second := b.DoInitialize()

	if !first.OK || !second.OK {
		t.Errorf("DoInitialize() results = %v, %v; want both OK", first, second)
	}
	if host.initCalls != 1 {
		t.Errorf("host Initialize called %d times; want 1", host.initCalls)
	}
}

func TestInitializeHostRejected(t *testing.T) {
	host := newFakeHost()
	host.initOK = false
	b := NewBridge(hostedWindow(host))

	first := b.DoInitialize()
	if first.OK {
		t.Error("DoInitialize() OK; want host rejection surfaced")
	}
	if first.ErrorCode != ErrGeneralException {
		t.Errorf("ErrorCode = %q; want %q", first.ErrorCode, ErrGeneralException)
	}

	// no automatic retry: the cached result comes back, the host is not recontacted
	second := b.DoInitialize()
	if second.OK {
		t.Error("second DoInitialize() OK; want cached failure")
	}
	if host.initCalls != 1 {
		t.Errorf("host Initialize called %d times; want 1", host.initCalls)
	}
}

func TestFinishIdempotent(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))
	b.DoInitialize()

	first := b.DoFinish()
	second := b.DoFinish()

	if !first.OK || !second.OK {
		t.Errorf("DoFinish() results = %v, %v; want both OK", first, second)
	}
	if host.termCalls != 1 {
		t.Errorf("host Terminate called %d times; want 1", host.termCalls)
	}
}

func TestFinishTerminalOnHostFailure(t *testing.T) {
	host := newFakeHost()
	host.termOK = false
	b := NewBridge(hostedWindow(host))
	b.DoInitialize()

	if res := b.DoFinish(); res.OK {
		t.Error("DoFinish() OK; want host rejection surfaced")
	}
	// termination is terminal even on failure
	if res := b.DoFinish(); !res.OK {
		t.Errorf("second DoFinish() = %v; want no-op success", res)
	}
	if host.termCalls != 1 {
		t.Errorf("host Terminate called %d times; want 1", host.termCalls)
	}
}

func TestNoHostGracefulMode(t *testing.T) {
	// 3 nested frames, no API anywhere, no opener
	b := NewBridge(frameChain(3)[0])

	if res := b.DoInitialize(); !res.OK {
		t.Errorf("DoInitialize() = %v; want synthesized success", res)
	}
	if res := b.DoSetValue("x", "1"); !res.OK {
		t.Errorf("DoSetValue() = %v; want success", res)
	}
	if res := b.DoGetValue("x"); !res.OK || res.Value != "" {
		t.Errorf("DoGetValue() = %v; want OK with empty value", res)
	}
	if res := b.DoCommit(); !res.OK {
		t.Errorf("DoCommit() = %v; want success", res)
	}
	if res := b.DoFinish(); !res.OK {
		t.Errorf("DoFinish() = %v; want success", res)
	}
	if code := b.GetLastError(); code != ErrNoError {
		t.Errorf("GetLastError() = %q; want %q", code, ErrNoError)
	}
}

func TestDiscoveryMemoized(t *testing.T) {
	host := newFakeHost()
	win := hostedWindow(host)
	b := NewBridge(win)

	b.DoInitialize()
	walked := win.parentCalls

	b.DoGetValue("cmi.core.lesson_status")
	b.DoSetValue("cmi.core.lesson_location", "p2")
	b.DoCommit()

	if win.parentCalls != walked {
		t.Errorf("Parent() called %d times after data ops; want %d (one walk per session)",
			win.parentCalls, walked)
	}
}

func TestLazyAutoInitialize(t *testing.T) {
	host := newFakeHost()
	host.values["cmi.core.score.raw"] = "42"
	b := NewBridge(hostedWindow(host))

	res := b.DoGetValue("cmi.core.score.raw")
	if !res.OK || res.Value != "42" {
		t.Errorf("DoGetValue() = %v; want OK with %q", res, "42")
	}
	if host.initCalls != 1 {
		t.Errorf("host Initialize called %d times; want 1 (lazy auto-initialize)", host.initCalls)
	}

	// session is now initialized: an explicit call is the idempotent no-op
	b.DoInitialize()
	if host.initCalls != 1 {
		t.Errorf("host Initialize called %d times after explicit call; want 1", host.initCalls)
	}
}

func TestSetValueStringification(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))

	b.DoSetValue("cmi.core.score.raw", 85)
	b.DoSetValue("cmi.core.score.scaled", 0.85)

	want := [][2]string{
		{"cmi.core.score.raw", "85"},
		{"cmi.core.score.scaled", "0.85"},
	}
	if len(host.setCalls) != len(want) {
		t.Fatalf("host SetValue called %d times; want %d", len(host.setCalls), len(want))
	}
	for i, w := range want {
		if host.setCalls[i] != w {
			t.Errorf("set call %d = %v; want %v", i, host.setCalls[i], w)
		}
	}
}

func TestPostTerminateCalls(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))
	b.DoInitialize()
	b.DoFinish()

	gets, sets, commits := len(host.getCalls), len(host.setCalls), host.commitCalls

	if res := b.DoSetValue("cmi.core.exit", "suspend"); res.OK || res.ErrorCode != ErrNotInitialized {
		t.Errorf("DoSetValue() after finish = %v; want failure with code %q", res, ErrNotInitialized)
	}
	if res := b.DoGetValue("cmi.core.exit"); res.OK || res.ErrorCode != ErrNotInitialized {
		t.Errorf("DoGetValue() after finish = %v; want failure with code %q", res, ErrNotInitialized)
	}
	if res := b.DoCommit(); res.OK || res.ErrorCode != ErrNotInitialized {
		t.Errorf("DoCommit() after finish = %v; want failure with code %q", res, ErrNotInitialized)
	}

	if len(host.getCalls) != gets || len(host.setCalls) != sets || host.commitCalls != commits {
		t.Error("host contacted after termination; post-terminate calls must stay local")
	}
	if code := b.GetLastError(); code != ErrNotInitialized {
		t.Errorf("GetLastError() = %q; want %q", code, ErrNotInitialized)
	}
}

func TestEmptyElementIsLocalError(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))

	if res := b.DoGetValue(""); res.OK || res.ErrorCode != ErrInvalidArgument {
		t.Errorf("DoGetValue(\"\") = %v; want failure with code %q", res, ErrInvalidArgument)
	}
	if res := b.DoSetValue("", "x"); res.OK || res.ErrorCode != ErrInvalidArgument {
		t.Errorf("DoSetValue(\"\", ...) = %v; want failure with code %q", res, ErrInvalidArgument)
	}
	if code := b.GetLastError(); code != ErrInvalidArgument {
		t.Errorf("GetLastError() = %q; want %q", code, ErrInvalidArgument)
	}

	// a successful operation clears the local error
	b.DoSetValue("cmi.core.lesson_location", "p1")
	if code := b.GetLastError(); code != ErrNoError {
		t.Errorf("GetLastError() after success = %q; want %q", code, ErrNoError)
	}
}

func TestErrorIntrospectionPassThrough(t *testing.T) {
	host := newFakeHost()
	b := NewBridge(hostedWindow(host))
	b.DoInitialize()

	if got := b.GetErrorString(ErrGeneralException); got != "host: General exception" {
		t.Errorf("GetErrorString() = %q; want host pass-through", got)
	}
	if got := b.GetDiagnostic("101"); got != "diag 101" {
		t.Errorf("GetDiagnostic() = %q; want host pass-through", got)
	}
}

func TestErrorIntrospectionNoHost(t *testing.T) {
	b := NewBridge(frameChain(2)[0])
	b.DoInitialize()

	if got := b.GetLastError(); got != ErrNoError {
		t.Errorf("GetLastError() = %q; want %q", got, ErrNoError)
	}
	if got := b.GetErrorString(ErrNotInitialized); got != "Not initialized" {
		t.Errorf("GetErrorString() = %q; want local table text", got)
	}
	if got := b.GetDiagnostic("101"); got != "" {
		t.Errorf("GetDiagnostic() = %q; want empty", got)
	}
}

func TestWithMaxHops(t *testing.T) {
	ws := frameChain(6)
	ws[5].api = newFakeHost()

	b := NewBridge(ws[0], WithMaxHops(2))
	b.DoInitialize()
	if b.HostFound() {
		t.Error("HostFound() = true; want API out of reach with 2 hops")
	}

	b = NewBridge(ws[0], WithMaxHops(5))
	b.DoInitialize()
	if !b.HostFound() {
		t.Error("HostFound() = false; want API within 5 hops")
	}
}
