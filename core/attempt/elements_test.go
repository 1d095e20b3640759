package attempt

import (
	"testing"
	"time"
)

func TestGetCoreElement(t *testing.T) {
	score := 85.5
	att := Attempt{
		LearnerID:      "std-1",
		LearnerName:    "Kali",
		LessonStatus:   StatusIncomplete,
		ScoreRaw:       &score,
		ScoreMin:       0,
		ScoreMax:       100,
		TotalTime:      time.Hour + 5*time.Minute,
		LessonLocation: "page-3",
		SuspendData:    "state",
		Credit:         "credit",
		Entry:          EntryResume,
	}

	tests := []struct {
		element string
		want    string
	}{
		{element: "cmi.core.lesson_status", want: "incomplete"},
		{element: "cmi.core.score.raw", want: "85.5"},
		{element: "cmi.core.score.min", want: "0"},
		{element: "cmi.core.score.max", want: "100"},
		{element: "cmi.core.lesson_location", want: "page-3"},
		{element: "cmi.core.total_time", want: "01:05:00"},
		{element: "cmi.core.student_id", want: "std-1"},
		{element: "cmi.core.student_name", want: "Kali"},
		{element: "cmi.core._version", want: "3.4"},
		{element: "cmi.suspend_data", want: "state"},
		{element: "cmi.core.credit", want: "credit"},
		{element: "cmi.core.entry", want: "resume"},
		{element: "cmi.bogus", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.element, func(t *testing.T) {
			if got := getCoreElement(&att, tt.element); got != tt.want {
				t.Errorf("getCoreElement(%s) = %q, want %q", tt.element, got, tt.want)
			}
		})
	}

	t.Run("unset score reads empty", func(t *testing.T) {
		empty := Attempt{}
		if got := getCoreElement(&empty, "cmi.core.score.raw"); got != "" {
			t.Errorf("getCoreElement() = %q, want empty", got)
		}
	})
}

func TestApplyCoreElement(t *testing.T) {
	tests := []struct {
		name    string
		element string
		value   string
		wantOK  bool
		check   func(t *testing.T, a *Attempt)
	}{
		{
			name: "valid status", element: "cmi.core.lesson_status", value: "passed", wantOK: true,
			check: func(t *testing.T, a *Attempt) {
				if a.LessonStatus != StatusPassed {
					t.Errorf("LessonStatus = %s", a.LessonStatus)
				}
			},
		},
		{name: "invalid status", element: "cmi.core.lesson_status", value: "winning", wantOK: false},
		{
			name: "score", element: "cmi.core.score.raw", value: "72.5", wantOK: true,
			check: func(t *testing.T, a *Attempt) {
				if a.ScoreRaw == nil || *a.ScoreRaw != 72.5 {
					t.Errorf("ScoreRaw = %v", a.ScoreRaw)
				}
			},
		},
		{name: "non-numeric score", element: "cmi.core.score.raw", value: "lol", wantOK: false},
		{
			name: "session time", element: "cmi.core.session_time", value: "00:12:30", wantOK: true,
			check: func(t *testing.T, a *Attempt) {
				if a.SessionTime != 12*time.Minute+30*time.Second {
					t.Errorf("SessionTime = %v", a.SessionTime)
				}
			},
		},
		{name: "malformed session time", element: "cmi.core.session_time", value: "12m", wantOK: false},
		{
			name: "suspend data", element: "cmi.suspend_data", value: "bookmark", wantOK: true,
			check: func(t *testing.T, a *Attempt) {
				if a.SuspendData != "bookmark" {
					t.Errorf("SuspendData = %s", a.SuspendData)
				}
			},
		},
		{name: "read-only student_id", element: "cmi.core.student_id", value: "x", wantOK: false},
		{name: "read-only total_time", element: "cmi.core.total_time", value: "00:00:01", wantOK: false},
		{name: "read-only entry", element: "cmi.core.entry", value: "resume", wantOK: false},
		{
			name: "unknown element tolerated", element: "cmi.student_preference.audio", value: "1", wantOK: true,
			check: func(t *testing.T, a *Attempt) {
				if *a != (Attempt{}) {
					t.Error("unknown element should not change the attempt")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var att Attempt
			if ok := applyCoreElement(&att, tt.element, tt.value); ok != tt.wantOK {
				t.Fatalf("applyCoreElement() = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, &att)
			}
		})
	}

	t.Run("location truncated", func(t *testing.T) {
		var att Attempt
		long := make([]byte, maxLocationLen+50)
		for i := range long {
			long[i] = 'a'
		}
		if ok := applyCoreElement(&att, "cmi.core.lesson_location", string(long)); !ok {
			t.Fatal("applyCoreElement() = false")
		}
		if len(att.LessonLocation) != maxLocationLen {
			t.Errorf("len(LessonLocation) = %d, want %d", len(att.LessonLocation), maxLocationLen)
		}
	})
}

func TestApplyInteractionField(t *testing.T) {
	var in Interaction

	if ok := applyInteractionField(&in, "id", "q-01"); !ok || in.InteractionID != "q-01" {
		t.Errorf("id: ok=%v InteractionID=%s", ok, in.InteractionID)
	}
	if ok := applyInteractionField(&in, "type", InteractionChoice); !ok || in.Type != InteractionChoice {
		t.Errorf("type: ok=%v Type=%s", ok, in.Type)
	}
	if ok := applyInteractionField(&in, "student_response", "b"); !ok || in.LearnerResponse != "b" {
		t.Errorf("student_response: ok=%v", ok)
	}
	if ok := applyInteractionField(&in, "result", ResultCorrect); !ok || in.Result != ResultCorrect {
		t.Errorf("result: ok=%v", ok)
	}
	if ok := applyInteractionField(&in, "weighting", "2.5"); !ok || in.Weighting != 2.5 {
		t.Errorf("weighting: ok=%v Weighting=%v", ok, in.Weighting)
	}
	if ok := applyInteractionField(&in, "weighting", "heavy"); ok {
		t.Error("non-numeric weighting accepted")
	}
	if ok := applyInteractionField(&in, "latency", "00:00:45"); !ok || in.Latency != 45*time.Second {
		t.Errorf("latency: ok=%v Latency=%v", ok, in.Latency)
	}
	if ok := applyInteractionField(&in, "correct_responses.0.pattern", "b"); !ok || len(in.CorrectResponses) != 1 {
		t.Errorf("correct_responses: ok=%v responses=%v", ok, in.CorrectResponses)
	}
	if ok := applyInteractionField(&in, "bogus", "x"); ok {
		t.Error("unknown interaction field accepted")
	}
}

func TestObjectiveFields(t *testing.T) {
	var ob Objective

	if ok := applyObjectiveField(&ob, "id", "obj-1"); !ok {
		t.Fatal("id rejected")
	}
	if ok := applyObjectiveField(&ob, "status", StatusPassed); !ok {
		t.Fatal("status rejected")
	}
	if ok := applyObjectiveField(&ob, "status", "winning"); ok {
		t.Error("invalid status accepted")
	}
	if ok := applyObjectiveField(&ob, "score.raw", "90"); !ok {
		t.Fatal("score.raw rejected")
	}

	if got := getObjectiveField(&ob, "id"); got != "obj-1" {
		t.Errorf("id = %s", got)
	}
	if got := getObjectiveField(&ob, "status"); got != StatusPassed {
		t.Errorf("status = %s", got)
	}
	if got := getObjectiveField(&ob, "score.raw"); got != "90" {
		t.Errorf("score.raw = %s", got)
	}
	if got := getObjectiveField(&ob, "bogus"); got != "" {
		t.Errorf("bogus = %s", got)
	}
}
