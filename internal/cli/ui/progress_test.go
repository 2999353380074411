package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func TestSpinnerStartStop(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	spinner := NewSpinner(&buf, "Fetching object list")
	spinner.interval = 10 * time.Millisecond

	spinner.Start()
	time.Sleep(50 * time.Millisecond)
	spinner.Stop()

	output := buf.String()
	if !strings.Contains(output, "Fetching object list") {
		t.Errorf("spinner never rendered its message: %q", output)
	}
	if !strings.Contains(output, "\r\033[K") {
		t.Error("spinner did not clear the line on stop")
	}

	// Stop is idempotent.
	spinner.Stop()
}

func TestSpinnerUpdateMessage(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	spinner := NewSpinner(&buf, "Authenticating")
	spinner.interval = 10 * time.Millisecond

	spinner.Start()
	time.Sleep(30 * time.Millisecond)
	spinner.UpdateMessage("Describing objects")
	time.Sleep(30 * time.Millisecond)
	spinner.Stop()

	if !strings.Contains(buf.String(), "Describing objects") {
		t.Errorf("updated message never rendered: %q", buf.String())
	}
}

func TestSpinnerSuccess(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	spinner := NewSpinner(&buf, "Syncing")
	spinner.Start()
	spinner.Success("Synced 412 objects")

	if !strings.Contains(buf.String(), "✓ Synced 412 objects\n") {
		t.Errorf("missing success line: %q", buf.String())
	}
}

func TestSpinnerFail(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	spinner := NewSpinner(&buf, "Syncing")
	spinner.Start()
	spinner.Fail("authentication failed")

	if !strings.Contains(buf.String(), "✗ authentication failed\n") {
		t.Errorf("missing failure line: %q", buf.String())
	}
}

func TestProgressBar(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 10, "Describing")

	bar.Add(5)
	if !strings.Contains(buf.String(), "5/10") {
		t.Errorf("missing midpoint count: %q", buf.String())
	}

	bar.Add(20)
	if !strings.Contains(buf.String(), "10/10") {
		t.Errorf("count should clamp at total: %q", buf.String())
	}

	bar.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should end the line")
	}
	if !strings.Contains(buf.String(), "█") {
		t.Errorf("bar never filled: %q", buf.String())
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 0, "Describing")
	bar.Add(1)

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero total, got: %q", buf.String())
	}
}
