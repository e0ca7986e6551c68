package reembed

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Update(10)
	tracker.Update(25)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "10/100")
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 50)

	tracker.Start()
	tracker.Update(10) // below interval, no report
	assert.Empty(t, buf.String())

	tracker.Update(50) // crosses interval
	assert.Contains(t, buf.String(), "50/100")
}

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)

	tracker.Start()
	tracker.Increment(3)
	tracker.Increment(3)
	assert.Contains(t, buf.String(), "6/10")

	// Capped at total
	tracker.Increment(100)
	tracker.Finish()
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	// Updates before Start are ignored
	tracker.Update(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	time.Sleep(10 * time.Millisecond)
	require.GreaterOrEqual(t, tracker.Elapsed(), 10*time.Millisecond)
}
