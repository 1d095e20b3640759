package scorm

import "errors"

// fakeHost is a scriptable HostAPI that records every call.
type fakeHost struct {
	initOK   bool
	termOK   bool
	setOK    bool
	commitOK bool
	values   map[string]string
	lastErr  string

	initCalls   int
	termCalls   int
	commitCalls int
	getCalls    []string
	setCalls    [][2]string
}

var _ HostAPI = (*fakeHost)(nil)

func newFakeHost() *fakeHost {
	return &fakeHost{
		initOK:   true,
		termOK:   true,
		setOK:    true,
		commitOK: true,
		values:   make(map[string]string),
		lastErr:  ErrNoError,
	}
}

func (h *fakeHost) Initialize(string) string {
	h.initCalls++
	if !h.initOK {
		h.lastErr = ErrGeneralException
	}
	return hostString(h.initOK)
}

func (h *fakeHost) Terminate(string) string {
	h.termCalls++
	if !h.termOK {
		h.lastErr = ErrGeneralException
	}
	return hostString(h.termOK)
}

func (h *fakeHost) GetValue(element string) string {
	h.getCalls = append(h.getCalls, element)
	return h.values[element]
}

func (h *fakeHost) SetValue(element, value string) string {
	h.setCalls = append(h.setCalls, [2]string{element, value})
	if h.setOK {
		h.values[element] = value
	}
	return hostString(h.setOK)
}

func (h *fakeHost) Commit(string) string {
	h.commitCalls++
	return hostString(h.commitOK)
}

func (h *fakeHost) GetLastError() string            { return h.lastErr }
func (h *fakeHost) GetErrorString(code string) string { return "host: " + ErrorText(code) }
func (h *fakeHost) GetDiagnostic(code string) string  { return "diag " + code }

// fakeWindow is a scriptable browsing context.
type fakeWindow struct {
	parent    Window
	parentErr error
	opener    Window
	api       HostAPI

	parentCalls int
	apiCalls    int
}

var _ Window = (*fakeWindow)(nil)

func (w *fakeWindow) Parent() (Window, error) {
	w.parentCalls++
	if w.parentErr != nil {
		return nil, w.parentErr
	}
	return w.parent, nil
}

func (w *fakeWindow) Opener() (Window, error) { return w.opener, nil }

func (w *fakeWindow) API() HostAPI {
	w.apiCalls++
	return w.api
}

var errCrossOrigin = errors.New("security error: cross-origin access denied")

// frameChain builds a chain of n nested windows with no API anywhere.
// The innermost window is at index 0.
func frameChain(n int) []*fakeWindow {
	ws := make([]*fakeWindow, n)
	for i := range ws {
		ws[i] = &fakeWindow{}
	}
	for i := 0; i < n-1; i++ {
		ws[i].parent = ws[i+1]
	}
	return ws
}

// hostedWindow returns a content window whose direct parent carries api.
func hostedWindow(api HostAPI) *fakeWindow {
	return &fakeWindow{parent: &fakeWindow{api: api}}
}
