package scorm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func runtimeStub(t *testing.T, calls *[]RuntimeRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RuntimeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("stub: decoding request: %v", err)
		}
		*calls = append(*calls, req)

		resp := RuntimeResponse{Success: true}
		switch req.Method {
		case MethodGetValue:
			resp.Value = "incomplete"
		case MethodGetLastError:
			resp.Value = ErrNoError
		case MethodGetErrorString:
			resp.Value = "No error"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPHostForwardsCalls(t *testing.T) {
	var calls []RuntimeRequest
	srv := runtimeStub(t, &calls)
	defer srv.Close()

	host := NewHTTPHost(srv.URL, "attempt-1", srv.Client())

	if got := host.Initialize(""); got != "true" {
		t.Errorf("Initialize() = %q; want %q", got, "true")
	}
	if got := host.SetValue("cmi.core.lesson_status", "incomplete"); got != "true" {
		t.Errorf("SetValue() = %q; want %q", got, "true")
	}
	if got := host.GetValue("cmi.core.lesson_status"); got != "incomplete" {
		t.Errorf("GetValue() = %q; want %q", got, "incomplete")
	}
	if got := host.Commit(""); got != "true" {
		t.Errorf("Commit() = %q; want %q", got, "true")
	}
	if got := host.Terminate(""); got != "true" {
		t.Errorf("Terminate() = %q; want %q", got, "true")
	}

	wantMethods := []string{MethodInitialize, MethodSetValue, MethodGetValue, MethodCommit, MethodFinish}
	if len(calls) != len(wantMethods) {
		t.Fatalf("endpoint saw %d calls; want %d", len(calls), len(wantMethods))
	}
	for i, m := range wantMethods {
		if calls[i].Method != m {
			t.Errorf("call %d method = %q; want %q", i, calls[i].Method, m)
		}
		if calls[i].AttemptID != "attempt-1" {
			t.Errorf("call %d attempt_id = %q; want %q", i, calls[i].AttemptID, "attempt-1")
		}
	}
	if params := calls[1].Parameters; len(params) != 2 || params[0] != "cmi.core.lesson_status" || params[1] != "incomplete" {
		t.Errorf("SetValue parameters = %v; want element and value", params)
	}
}

func TestHTTPHostTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	host := NewHTTPHost(srv.URL, "attempt-1", nil)

	if got := host.Initialize(""); got != "false" {
		t.Errorf("Initialize() = %q; want %q", got, "false")
	}
	if got := host.GetValue("cmi.core.lesson_status"); got != "" {
		t.Errorf("GetValue() = %q; want empty", got)
	}
	if got := host.GetLastError(); got != ErrGeneralException {
		t.Errorf("GetLastError() = %q; want %q", got, ErrGeneralException)
	}
}

func TestHTTPHostNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid attempt"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	host := NewHTTPHost(srv.URL, "gone", srv.Client())

	if got := host.SetValue("cmi.suspend_data", "x"); got != "false" {
		t.Errorf("SetValue() = %q; want %q", got, "false")
	}
	if got := host.GetLastError(); got != ErrGeneralException {
		t.Errorf("GetLastError() = %q; want %q", got, ErrGeneralException)
	}
}

func TestBridgeOverHTTPHost(t *testing.T) {
	var calls []RuntimeRequest
	srv := runtimeStub(t, &calls)
	defer srv.Close()

	host := NewHTTPHost(srv.URL, "attempt-1", srv.Client())
	b := NewBridge(&fakeWindow{parent: &fakeWindow{api: host}})

	if res := b.DoInitialize(); !res.OK {
		t.Fatalf("DoInitialize() over HTTP = %v; want OK", res)
	}
	if res := b.DoSetValue("cmi.core.score.raw", 85); !res.OK {
		t.Errorf("DoSetValue() over HTTP = %v; want OK", res)
	}
	if res := b.DoFinish(); !res.OK {
		t.Errorf("DoFinish() over HTTP = %v; want OK", res)
	}

	if len(calls) != 3 {
		t.Fatalf("endpoint saw %d calls; want 3", len(calls))
	}
	if calls[1].Parameters[1] != "85" {
		t.Errorf("score forwarded as %q; want %q", calls[1].Parameters[1], "85")
	}
}
