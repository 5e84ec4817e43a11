package verbose

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ddqhq/ddq/internal/query"
	"github.com/ddqhq/ddq/internal/timeexpr"
)

func testRange() timeexpr.Range {
	from := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return timeexpr.Range{From: from, To: from.Add(time.Hour)}
}

func TestDisabledLoggerIsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(false, &buf)

	l.Logf("should not appear")
	l.Request(query.Logs, "service:api", testRange())
	l.Config("datadoghq.com", true, true)
	l.ConsoleURL(query.Logs, "service:api", testRange(), "https://app.datadoghq.com")

	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Logf("no panic")
	l.ConsoleURL(query.Logs, "", testRange(), "https://app.datadoghq.com")
}

func TestRequestOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(true, &buf)
	l.Request(query.Spans, "service:api AND status:error", testRange())

	out := buf.String()
	for _, want := range []string{
		"[DEBUG] Resource type: spans",
		"Query: service:api AND status:error",
		"Time range: 2024-01-15T09:00:00.000Z to 2024-01-15T10:00:00.000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigHidesCredentials(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(true, &buf)
	l.Config("datadoghq.eu", true, false)

	out := buf.String()
	if !strings.Contains(out, "Datadog site: datadoghq.eu") {
		t.Errorf("output missing site:\n%s", out)
	}
	if !strings.Contains(out, "API key: set") || !strings.Contains(out, "App key: not set") {
		t.Errorf("output missing key presence lines:\n%s", out)
	}
}

func TestConsoleURL(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(true, &buf)
	l.ConsoleURL(query.Logs, "service:api", testRange(), "https://app.datadoghq.com")

	out := buf.String()
	if !strings.Contains(out, "https://app.datadoghq.com/logs?") {
		t.Errorf("output missing logs explorer URL:\n%s", out)
	}
	if !strings.Contains(out, "from_ts=1705309200000") || !strings.Contains(out, "to_ts=1705312800000") {
		t.Errorf("output missing millisecond timestamps:\n%s", out)
	}
	if !strings.Contains(out, "query=service%3Aapi") {
		t.Errorf("query not URL-encoded:\n%s", out)
	}
	if !strings.Contains(out, "live=false") {
		t.Errorf("logs URL missing live=false:\n%s", out)
	}
}

func TestConsoleURLSpans(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(true, &buf)
	l.ConsoleURL(query.Spans, "service:api", testRange(), "https://app.datadoghq.com")

	out := buf.String()
	if !strings.Contains(out, "https://app.datadoghq.com/apm/traces?") {
		t.Errorf("output missing traces URL:\n%s", out)
	}
	if strings.Contains(out, "live=false") {
		t.Errorf("spans URL should not carry live=false:\n%s", out)
	}
}

func TestConsoleURLMetricsSilent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(true, &buf)
	l.ConsoleURL(query.MetricsQuery, "avg:system.cpu.user{*}", testRange(), "https://app.datadoghq.com")

	if buf.Len() != 0 {
		t.Errorf("metrics query logged a URL: %q", buf.String())
	}
}
