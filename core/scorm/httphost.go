package scorm

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Runtime API methods understood by the LMS runtime endpoint.
const (
	MethodInitialize     = "LMSInitialize"
	MethodFinish         = "LMSFinish"
	MethodGetValue       = "LMSGetValue"
	MethodSetValue       = "LMSSetValue"
	MethodCommit         = "LMSCommit"
	MethodGetLastError   = "LMSGetLastError"
	MethodGetErrorString = "LMSGetErrorString"
	MethodGetDiagnostic  = "LMSGetDiagnostic"
)

type (
	// RuntimeRequest is the JSON body the runtime endpoint accepts.
	RuntimeRequest struct {
		Method     string   `json:"method"`
		Parameters []string `json:"parameters,omitempty"`
		AttemptID  string   `json:"attempt_id"`
	}

	// RuntimeResponse is the JSON body the runtime endpoint answers with.
	RuntimeResponse struct {
		Success bool   `json:"success"`
		Value   string `json:"value,omitempty"`
	}
)

// HTTPHost is a HostAPI that forwards every call to an LMS runtime endpoint
// as a JSON POST, on behalf of one attempt. Transport failures are absorbed
// into failure returns ("false" / empty value) and reported as a general
// exception through GetLastError, consistent with the bridge's no-throw
// policy.
type HTTPHost struct {
	endpoint  string
	attemptID string
	client    *http.Client
	lastError string
}

var _ HostAPI = (*HTTPHost)(nil)

// NewHTTPHost returns a host client for the given runtime endpoint and
// attempt. A nil client falls back to http.DefaultClient.
func NewHTTPHost(endpoint, attemptID string, client *http.Client) *HTTPHost {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPHost{
		endpoint:  endpoint,
		attemptID: attemptID,
		client:    client,
		lastError: ErrNoError,
	}
}

func (h *HTTPHost) call(method string, params ...string) RuntimeResponse {
	body, err := json.Marshal(RuntimeRequest{
		Method:     method,
		Parameters: params,
		AttemptID:  h.attemptID,
	})
	if err != nil {
		h.lastError = ErrGeneralException
		return RuntimeResponse{}
	}

	resp, err := h.client.Post(h.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		h.lastError = ErrGeneralException
		return RuntimeResponse{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		h.lastError = ErrGeneralException
		return RuntimeResponse{}
	}

	var rr RuntimeResponse
	if err = json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		h.lastError = ErrGeneralException
		return RuntimeResponse{}
	}
	h.lastError = ErrNoError
	return rr
}

func (h *HTTPHost) Initialize(param string) string {
	return hostString(h.call(MethodInitialize, param).Success)
}

func (h *HTTPHost) Terminate(param string) string {
	return hostString(h.call(MethodFinish, param).Success)
}

func (h *HTTPHost) GetValue(element string) string {
	return h.call(MethodGetValue, element).Value
}

func (h *HTTPHost) SetValue(element, value string) string {
	return hostString(h.call(MethodSetValue, element, value).Success)
}

func (h *HTTPHost) Commit(param string) string {
	return hostString(h.call(MethodCommit, param).Success)
}

func (h *HTTPHost) GetLastError() string {
	if h.lastError != ErrNoError {
		return h.lastError
	}
	if rr := h.call(MethodGetLastError); rr.Value != "" {
		return rr.Value
	}
	return ErrNoError
}

func (h *HTTPHost) GetErrorString(code string) string {
	if rr := h.call(MethodGetErrorString, code); rr.Value != "" {
		return rr.Value
	}
	return ErrorText(code)
}

func (h *HTTPHost) GetDiagnostic(code string) string {
	return h.call(MethodGetDiagnostic, code).Value
}
