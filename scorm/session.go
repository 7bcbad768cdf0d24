package scorm

import (
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SCORM data-model keys the bridge interprets. Everything else is retained
// verbatim in working state without affecting progress.
const (
	keyLessonStatus     = "cmi.core.lesson_status" // SCORM 1.2
	keyCompletionStatus = "cmi.completion_status"  // SCORM 2004
	keyScoreRaw12       = "cmi.core.score.raw"
	keyScoreRaw2004     = "cmi.score.raw"
	keyProgressMeasure  = "cmi.progress_measure"
	keyLocation12       = "cmi.core.lesson_location"
	keyLocation2004     = "cmi.location"
	keySuspendData      = "cmi.suspend_data"
)

// Return conventions mandated by the SCORM RTE: string-typed booleans and
// fixed no-error sentinels. Third-party content checks for the literals.
const (
	rteTrue    = "true"
	rteNoError = "0"
	rteNoDiag  = ""
)

// DefaultFlushDelay coalesces bursts of SetValue calls into one flush
const DefaultFlushDelay = 100 * time.Millisecond

// Session states
const (
	stateNotInitialized = iota
	stateRunning
	stateTerminated
)

// FlushPayload is the state snapshot handed to a Flusher
type FlushPayload struct {
	UserID          string            `json:"userId"`
	CourseID        string            `json:"courseId"`
	Progress        int               `json:"progress"`
	ScormData       map[string]string `json:"scormData"`
	Completed       bool              `json:"completed"`
	CurrentLocation string            `json:"currentLocation"`
	SuspendData     string            `json:"suspendData"`
}

// Flusher delivers bridge state to persistence. Delivery is best-effort:
// a failed flush is logged and dropped, never retried.
type Flusher interface {
	Flush(payload FlushPayload) error
}

// Session is one open course-player's runtime bridge. It implements the
// SCORM RTE contract the embedded content calls against, holds the working
// copy of all reported key/value pairs, derives progress on every write and
// flushes state to persistence on a debounce, on Commit, on Finish and on
// Close. Content invokes it synchronously, so operations lock a single
// mutex; the debounce timer is the only other caller.
type Session struct {
	ID       string
	UserID   string
	CourseID string

	mu         sync.Mutex
	state      int
	data       map[string]string
	progress   int
	flusher    Flusher
	flushDelay time.Duration
	timer      *time.Timer
}

// NewSession creates a bridge session seeded with the enrollment's persisted
// working state (empty maps are fine for a first launch).
func NewSession(id, userID, courseID string, seed map[string]string, progress int, flusher Flusher) *Session {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &Session{
		ID:         id,
		UserID:     userID,
		CourseID:   courseID,
		data:       data,
		progress:   progress,
		flusher:    flusher,
		flushDelay: DefaultFlushDelay,
	}
}

// Initialize marks the session active. State was already seeded at session
// creation, so there is nothing else to do.
func (s *Session) Initialize() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateNotInitialized {
		s.state = stateRunning
	}
	return rteTrue
}

// Finish triggers a final flush. Per the standard the content considers the
// session over, but the player may still Close later (which flushes again).
func (s *Session) Finish() string {
	s.mu.Lock()
	s.state = stateTerminated
	s.stopTimerLocked()
	payload := s.payloadLocked()
	s.mu.Unlock()

	s.deliver(payload)
	return rteTrue
}

// GetValue returns the stored value for a key, or the empty string when the
// key was never set. Never an error.
func (s *Session) GetValue(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// SetValue writes into working state, recomputes derived progress and, for
// keys worth persisting, schedules a debounced flush.
func (s *Session) SetValue(key, value string) string {
	s.mu.Lock()
	s.data[key] = value
	s.deriveProgressLocked(key, value)
	if isTrackedKey(key) {
		s.scheduleFlushLocked()
	}
	s.mu.Unlock()
	return rteTrue
}

// Commit flushes current state immediately, bypassing the debounce, without
// ending the session.
func (s *Session) Commit() string {
	s.mu.Lock()
	s.stopTimerLocked()
	payload := s.payloadLocked()
	s.mu.Unlock()

	s.deliver(payload)
	return rteTrue
}

// GetLastError always reports no error; this bridge does not model the
// standard's full error-code taxonomy.
func (s *Session) GetLastError() string { return rteNoError }

// GetErrorString maps any code to the no-error string
func (s *Session) GetErrorString(code string) string { return "No error" }

// GetDiagnostic always returns the empty diagnostic
func (s *Session) GetDiagnostic(code string) string { return rteNoDiag }

// Progress reports the current derived progress value
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Close tears the session down: it always performs one final flush with
// whatever working state exists, regardless of what state the content left
// itself in, then stops the debounce timer for good.
func (s *Session) Close() {
	s.mu.Lock()
	s.state = stateTerminated
	s.stopTimerLocked()
	payload := s.payloadLocked()
	s.mu.Unlock()

	s.deliver(payload)
}

// Call dispatches a named RTE operation. Both the SCORM 1.2 (LMS-prefixed)
// and SCORM 2004 operation names bind to the same implementation, since
// different content expects different global names. The second return is
// false for an unknown operation name.
func (s *Session) Call(op, key, value string) (string, bool) {
	switch op {
	case "Initialize", "LMSInitialize":
		return s.Initialize(), true
	case "Terminate", "Finish", "LMSFinish":
		return s.Finish(), true
	case "GetValue", "LMSGetValue":
		return s.GetValue(key), true
	case "SetValue", "LMSSetValue":
		return s.SetValue(key, value), true
	case "Commit", "LMSCommit":
		return s.Commit(), true
	case "GetLastError", "LMSGetLastError":
		return s.GetLastError(), true
	case "GetErrorString", "LMSGetErrorString":
		return s.GetErrorString(key), true
	case "GetDiagnostic", "LMSGetDiagnostic":
		return s.GetDiagnostic(key), true
	}
	return "", false
}

// deriveProgressLocked applies the progress policy for one written key
func (s *Session) deriveProgressLocked(key, value string) {
	switch key {
	case keyLessonStatus, keyCompletionStatus:
		if value == "completed" {
			s.progress = 100
		}
	case keyScoreRaw12, keyScoreRaw2004:
		if score, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			s.progress = score
		}
	case keyProgressMeasure:
		if measure, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			s.progress = int(math.Round(measure * 100))
		}
	}
}

// isTrackedKey reports whether a write to the key should schedule a flush
func isTrackedKey(key string) bool {
	switch key {
	case keyLessonStatus, keyCompletionStatus,
		keyScoreRaw12, keyScoreRaw2004, keyProgressMeasure,
		keyLocation12, keyLocation2004,
		keySuspendData:
		return true
	}
	return false
}

// scheduleFlushLocked arms (or re-arms) the debounce timer. The flush sends
// whatever the working state is when the timer fires, not a snapshot from
// scheduling time; superseding writes are coalesced on purpose.
func (s *Session) scheduleFlushLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.flushDelay, func() {
		s.mu.Lock()
		if s.state == stateTerminated {
			s.mu.Unlock()
			return
		}
		payload := s.payloadLocked()
		s.mu.Unlock()
		s.deliver(payload)
	})
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// payloadLocked snapshots working state into a FlushPayload. The bookmark is
// read from whichever location key is present and the suspend data blob is
// passed through without interpretation or size limits.
func (s *Session) payloadLocked() FlushPayload {
	data := make(map[string]string, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}

	location := data[keyLocation12]
	if location == "" {
		location = data[keyLocation2004]
	}

	return FlushPayload{
		UserID:          s.UserID,
		CourseID:        s.CourseID,
		Progress:        s.progress,
		ScormData:       data,
		Completed:       s.progress >= 100,
		CurrentLocation: location,
		SuspendData:     data[keySuspendData],
	}
}

// deliver hands a payload to the flusher outside the session lock. Failures
// are logged and dropped; there is no retry and no user-visible indication.
func (s *Session) deliver(payload FlushPayload) {
	if s.flusher == nil {
		return
	}
	if err := s.flusher.Flush(payload); err != nil {
		log.Printf("[SCORM-RTE] Flush failed for course %s: %v", payload.CourseID, err)
	}
}

// SetFlushDelay overrides the debounce window. Intended for tests.
func (s *Session) SetFlushDelay(d time.Duration) {
	s.mu.Lock()
	s.flushDelay = d
	s.mu.Unlock()
}
