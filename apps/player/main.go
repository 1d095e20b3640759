// Command player runs a scripted SCORM session against the runtime bridge.
// With -api it talks to a running LMS runtime endpoint on behalf of an
// attempt; without it the session runs in host-absent preview mode.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/somolms/somo/core/scorm"
)

// playerWindow is a minimal frame hierarchy for the bridge to walk.
type playerWindow struct {
	parent *playerWindow
	opener *playerWindow
	api    scorm.HostAPI
}

var _ scorm.Window = (*playerWindow)(nil)

func (w *playerWindow) Parent() (scorm.Window, error) {
	if w.parent == nil {
		return nil, nil
	}
	return w.parent, nil
}

func (w *playerWindow) Opener() (scorm.Window, error) {
	if w.opener == nil {
		return nil, nil
	}
	return w.opener, nil
}

func (w *playerWindow) API() scorm.HostAPI { return w.api }

func main() {
	logger := log.New(os.Stdout, "PLAYER : ", log.LstdFlags)

	apiURL := flag.String("api", "", "The LMS runtime endpoint URL. Empty runs in preview mode.")
	attemptID := flag.String("attempt", "", "The attempt to run the session on. Required with -api.")
	frames := flag.Int("frames", 2, "The number of frames between the content and the host API.")
	flag.Parse()

	// the content window sits at the bottom of a frame chain; the host API,
	// when present, sits at the top
	top := &playerWindow{}
	if *apiURL != "" {
		if *attemptID == "" {
			logger.Fatal("-attempt is required with -api")
		}
		top.api = scorm.NewHTTPHost(*apiURL, *attemptID, nil)
	}
	win := top
	for i := 0; i < *frames; i++ {
		win = &playerWindow{parent: win}
	}

	bridge := scorm.NewBridge(win)

	report := func(op string, res scorm.OperationResult) {
		if res.OK {
			if res.Value != "" {
				logger.Printf("%-14s ok value=%q", op, res.Value)
			} else {
				logger.Printf("%-14s ok", op)
			}
		} else {
			code := res.ErrorCode
			logger.Printf("%-14s FAILED code=%s (%s)", op, code, bridge.GetErrorString(code))
		}
	}

	report("Initialize", bridge.DoInitialize())
	report("GetValue", bridge.DoGetValue("cmi.core.lesson_status"))
	report("SetValue", bridge.DoSetValue("cmi.core.lesson_status", "incomplete"))
	report("SetValue", bridge.DoSetValue("cmi.core.score.raw", 85))
	report("SetValue", bridge.DoSetValue("cmi.core.session_time", "00:12:30"))
	report("Commit", bridge.DoCommit())
	report("GetValue", bridge.DoGetValue("cmi.core.score.raw"))
	report("Finish", bridge.DoFinish())

	fmt.Println("session done")
}
