package scorm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFlusher captures every payload it receives
type recordingFlusher struct {
	mu       sync.Mutex
	payloads []FlushPayload
	err      error
}

func (f *recordingFlusher) Flush(payload FlushPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return f.err
}

func (f *recordingFlusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *recordingFlusher) last() FlushPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloads[len(f.payloads)-1]
}

func newTestSession(flusher Flusher) *Session {
	return NewSession("session-1", "user-1", "scorm-course-1", nil, 0, flusher)
}

func TestSessionRTEContractLiterals(t *testing.T) {
	s := newTestSession(nil)

	assert.Equal(t, "true", s.Initialize())
	assert.Equal(t, "true", s.SetValue("cmi.core.lesson_location", "page-4"))
	assert.Equal(t, "true", s.Commit())
	assert.Equal(t, "0", s.GetLastError())
	assert.Equal(t, "No error", s.GetErrorString("0"))
	assert.Equal(t, "", s.GetDiagnostic("0"))
	assert.Equal(t, "true", s.Finish())
}

func TestGetValueUnsetKeyReturnsEmptyString(t *testing.T) {
	s := newTestSession(nil)
	s.Initialize()

	assert.Equal(t, "", s.GetValue("cmi.core.score.raw"))
	assert.Equal(t, "", s.GetValue("cmi.anything.else"))
}

func TestSeedStateServedThroughGetValue(t *testing.T) {
	seed := map[string]string{
		"cmi.core.lesson_location": "page-9",
		"cmi.suspend_data":         "blob",
	}
	s := NewSession("session-1", "user-1", "scorm-course-1", seed, 40, nil)
	s.Initialize()

	assert.Equal(t, "page-9", s.GetValue("cmi.core.lesson_location"))
	assert.Equal(t, "blob", s.GetValue("cmi.suspend_data"))
	assert.Equal(t, 40, s.Progress())
}

func TestCompletionStatusDerivesProgress100(t *testing.T) {
	s := newTestSession(nil)
	s.Initialize()

	s.SetValue("cmi.core.lesson_status", "completed")
	assert.Equal(t, 100, s.Progress())

	s2 := newTestSession(nil)
	s2.Initialize()
	s2.SetValue("cmi.completion_status", "completed")
	assert.Equal(t, 100, s2.Progress())
}

func TestIncompleteStatusLeavesProgressAlone(t *testing.T) {
	s := NewSession("session-1", "user-1", "scorm-course-1", nil, 40, nil)
	s.Initialize()

	s.SetValue("cmi.core.lesson_status", "incomplete")
	assert.Equal(t, 40, s.Progress())
}

func TestScoreRawDerivesProgress(t *testing.T) {
	s := newTestSession(nil)
	s.Initialize()

	s.SetValue("cmi.core.score.raw", "76")
	assert.Equal(t, 76, s.Progress())

	s.SetValue("cmi.score.raw", "83")
	assert.Equal(t, 83, s.Progress())

	// non-numeric scores are retained in working state but ignored for progress
	s.SetValue("cmi.core.score.raw", "not-a-number")
	assert.Equal(t, 83, s.Progress())
	assert.Equal(t, "not-a-number", s.GetValue("cmi.core.score.raw"))
}

func TestProgressMeasureDerivesRoundedPercent(t *testing.T) {
	s := newTestSession(nil)
	s.Initialize()

	s.SetValue("cmi.progress_measure", "0.755")
	assert.Equal(t, 76, s.Progress())

	s.SetValue("cmi.progress_measure", "0.5")
	assert.Equal(t, 50, s.Progress())
}

func TestCommitFlushesImmediately(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.Initialize()

	s.SetValue("cmi.core.score.raw", "76")
	s.Commit()

	require.Equal(t, 1, flusher.count())
	payload := flusher.last()
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, "scorm-course-1", payload.CourseID)
	assert.Equal(t, 76, payload.Progress)
	assert.False(t, payload.Completed)
	assert.Equal(t, "76", payload.ScormData["cmi.core.score.raw"])
}

func TestDebounceCoalescesBurstIntoOneFlush(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.SetFlushDelay(20 * time.Millisecond)
	s.Initialize()

	s.SetValue("cmi.core.score.raw", "40")
	s.SetValue("cmi.core.lesson_location", "page-2")
	s.SetValue("cmi.core.score.raw", "76")

	require.Eventually(t, func() bool { return flusher.count() == 1 },
		time.Second, 5*time.Millisecond)

	// the fired flush carries the final working state, not the first write's
	payload := flusher.last()
	assert.Equal(t, 76, payload.Progress)
	assert.Equal(t, "page-2", payload.CurrentLocation)

	// no trailing second flush
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, flusher.count())
}

func TestUntrackedKeyDoesNotScheduleFlush(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.SetFlushDelay(5 * time.Millisecond)
	s.Initialize()

	s.SetValue("cmi.interactions.0.id", "q1")

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, flusher.count())
	assert.Equal(t, "q1", s.GetValue("cmi.interactions.0.id"))
}

func TestFinishFlushesAndCancelsDebounce(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.SetFlushDelay(20 * time.Millisecond)
	s.Initialize()

	s.SetValue("cmi.core.lesson_status", "completed")
	s.Finish()

	require.Equal(t, 1, flusher.count())
	payload := flusher.last()
	assert.Equal(t, 100, payload.Progress)
	assert.True(t, payload.Completed)

	// the pending debounce must not fire after termination
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, flusher.count())
}

func TestCloseAlwaysFlushesEvenWithoutWrites(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.Initialize()

	s.Close()

	require.Equal(t, 1, flusher.count())
	payload := flusher.last()
	assert.Equal(t, 0, payload.Progress)
	assert.False(t, payload.Completed)
}

func TestBookmarkPrefersScorm12LocationKey(t *testing.T) {
	flusher := &recordingFlusher{}
	s := newTestSession(flusher)
	s.Initialize()

	s.SetValue("cmi.location", "chapter-2")
	s.SetValue("cmi.core.lesson_location", "page-7")
	s.SetValue("cmi.suspend_data", "state-blob")
	s.Commit()

	payload := flusher.last()
	assert.Equal(t, "page-7", payload.CurrentLocation)
	assert.Equal(t, "state-blob", payload.SuspendData)
}

func TestFlushFailureIsDropped(t *testing.T) {
	flusher := &recordingFlusher{err: errors.New("persistence down")}
	s := newTestSession(flusher)
	s.Initialize()

	// Commit still reports success to the content; the failed delivery is
	// logged and dropped with no retry.
	assert.Equal(t, "true", s.Commit())
	s.Close()
	assert.Equal(t, 2, flusher.count())
}

func TestCallDispatchesBothNamingConventions(t *testing.T) {
	s := newTestSession(nil)

	result, ok := s.Call("LMSInitialize", "", "")
	require.True(t, ok)
	assert.Equal(t, "true", result)

	result, ok = s.Call("LMSSetValue", "cmi.core.score.raw", "55")
	require.True(t, ok)
	assert.Equal(t, "true", result)

	result, ok = s.Call("GetValue", "cmi.core.score.raw", "")
	require.True(t, ok)
	assert.Equal(t, "55", result)

	result, ok = s.Call("Terminate", "", "")
	require.True(t, ok)
	assert.Equal(t, "true", result)

	_, ok = s.Call("LMSDoMagic", "", "")
	assert.False(t, ok)
}

func TestManagerOpenCallClose(t *testing.T) {
	flusher := &recordingFlusher{}
	m := NewManager(flusher)

	session := m.Open("user-1", "scorm-course-2", SeedState{
		ScormData:       map[string]string{"cmi.core.lesson_location": "page-3"},
		Progress:        30,
		CurrentLocation: "page-3",
	})
	require.NotEmpty(t, session.ID)
	assert.Equal(t, 1, m.Count())

	result, err := m.Call(session.ID, "LMSGetValue", "cmi.core.lesson_location", "")
	require.NoError(t, err)
	assert.Equal(t, "page-3", result)

	_, err = m.Call(session.ID, "LMSDoMagic", "", "")
	assert.Error(t, err)

	require.NoError(t, m.Close(session.ID))
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, 1, flusher.count()) // the close flush

	_, err = m.Call(session.ID, "LMSGetValue", "cmi.core.lesson_location", "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(session.ID), ErrSessionNotFound)
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	m := NewManager(nil)

	s1 := m.Open("user-1", "scorm-course-1", SeedState{})
	s2 := m.Open("user-2", "scorm-course-1", SeedState{})
	require.NotEqual(t, s1.ID, s2.ID)

	s1.SetValue("cmi.core.score.raw", "90")
	assert.Equal(t, 90, s1.Progress())
	assert.Equal(t, 0, s2.Progress())
	assert.Equal(t, "", s2.GetValue("cmi.core.score.raw"))
}
