package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/edelwud/expoci/internal/batch"
	"github.com/edelwud/expoci/internal/validation"
	"github.com/edelwud/expoci/pkg/options"
)

func TestList(t *testing.T) {
	out := ansi.Strip(List("Required secrets", []Row{
		{Key: "EXPO_TOKEN", Value: "Expo access token"},
		{Key: "SLACK_WEBHOOK", Value: "Slack webhook URL"},
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected title and 2 rows, got %q", out)
	}
	if lines[0] != "Required secrets" {
		t.Errorf("unexpected title %q", lines[0])
	}
	// Values are aligned after the longest key
	if strings.Index(lines[1], "Expo") != strings.Index(lines[2], "Slack") {
		t.Errorf("values are not aligned:\n%s", out)
	}
}

func TestReport(t *testing.T) {
	valid := ansi.Strip(Report(validation.Validate(options.Default())))
	if !strings.Contains(valid, "Options are valid") {
		t.Errorf("expected valid report, got %q", valid)
	}

	o := options.Default()
	o.BuildKinds = nil
	o.Storage = options.StorageGitHubRelease
	o.Triggers = []options.Trigger{options.TriggerPush}

	invalid := ansi.Strip(Report(validation.Validate(o)))
	if !strings.Contains(invalid, "2 problem(s) found") {
		t.Errorf("expected problem count, got %q", invalid)
	}
	if !strings.Contains(invalid, "buildKinds:\n    - "+validation.MsgNoBuildKinds) {
		t.Errorf("expected build kinds violation, got %q", invalid)
	}
	if !strings.Contains(invalid, "general:\n    - "+validation.MsgReleaseNeedsManual) {
		t.Errorf("expected trigger violation, got %q", invalid)
	}
	if strings.Contains(invalid, "triggers:") {
		t.Errorf("fields without violations should not be listed, got %q", invalid)
	}
}

func TestReport_GroupsByField(t *testing.T) {
	o := options.Default()
	o.Storage = options.StorageGitHubRelease
	o.Triggers = []options.Trigger{options.TriggerPush}
	o.Advanced.IOSSupport = true

	out := ansi.Strip(Report(validation.Validate(o)))
	want := "  general:\n" +
		"    - " + validation.MsgReleaseNeedsManual + "\n" +
		"    - " + validation.MsgIOSNeedsManual + "\n"
	if !strings.Contains(out, want) {
		t.Errorf("expected one general heading over both violations, got %q", out)
	}
	if strings.Count(out, "general:") != 1 {
		t.Errorf("field heading should appear once, got %q", out)
	}
}

func TestNotices(t *testing.T) {
	if Notices(nil) != "" {
		t.Error("expected no output without notices")
	}

	out := ansi.Strip(Notices([]validation.Notice{{Field: validation.FieldTriggers, Message: "Added manual"}}))
	if out != "! Added manual\n" {
		t.Errorf("unexpected notices output %q", out)
	}
}

func TestBatchSummary(t *testing.T) {
	result := &batch.Result{
		Manifest: batch.Manifest{{Filename: "a.yml"}, {Filename: "b.yml"}},
		Failures: []batch.Failure{{Filename: "c.yml", Err: errors.New("is a directory")}},
		Skipped:  3,
	}

	out := ansi.Strip(BatchSummary("examples", result))
	for _, want := range []string{"Batch complete", "2 workflow(s) written to examples", "3 combination(s) skipped", "c.yml: is a directory"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, StyleBold.Render("hello"))

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected text in output, got %q", buf.String())
	}
}

func TestTerminalWidth(t *testing.T) {
	if TerminalWidth() <= 0 {
		t.Error("terminal width must be positive")
	}
}
