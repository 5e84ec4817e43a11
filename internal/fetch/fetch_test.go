package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ddqhq/ddq/internal/datadog"
	ddqerrors "github.com/ddqhq/ddq/internal/errors"
	"github.com/ddqhq/ddq/internal/output"
	"github.com/ddqhq/ddq/internal/query"
	"github.com/ddqhq/ddq/internal/timeexpr"
)

func testRange() timeexpr.Range {
	from := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return timeexpr.Range{From: from, To: from.Add(time.Hour)}
}

func logsDescriptor(limit uint64) query.Descriptor {
	return query.NewDescriptor(query.Logs, "service:api", testRange(), limit, 0, []string{"*"})
}

func countLines(buf *bytes.Buffer) int {
	s := strings.TrimSpace(buf.String())
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

func TestRunFollowsCursorToEnd(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":"b"}`), Cursor: "c1"},
			{Records: datadog.RawRecords(`{"id":"c"}`), Cursor: "c2"},
			{Records: datadog.RawRecords(`{"id":"d"}`)},
		},
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(0), mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if countLines(&buf) != 4 {
		t.Errorf("wrote %d lines, want 4", countLines(&buf))
	}
	if mock.CallCount != 3 {
		t.Errorf("CallCount = %d, want 3", mock.CallCount)
	}

	// The continuation token from each page must flow into the next request.
	if mock.Requests[0].Cursor != "" {
		t.Errorf("first request carried cursor %q", mock.Requests[0].Cursor)
	}
	if mock.Requests[1].Cursor != "c1" || mock.Requests[2].Cursor != "c2" {
		t.Errorf("cursors = %q, %q, want c1, c2", mock.Requests[1].Cursor, mock.Requests[2].Cursor)
	}
}

func TestRunStopsAtLimitMidPage(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":"b"}`, `{"id":"c"}`), Cursor: "more"},
		},
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(2), mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	// The cursor pointed at more data, but the limit was reached: no
	// further page may be requested.
	if mock.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount)
	}
}

func TestRunEmitsAllWhenFewerThanLimit(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":"b"}`)},
		},
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(50), mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestRunShrinksFinalPageRequest(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":"b"}`), Cursor: "c1"},
			{Records: datadog.RawRecords(`{"id":"c"}`)},
		},
	}

	desc := query.NewDescriptor(query.Logs, "service:api", testRange(), 3, 2, []string{"*"})
	var buf bytes.Buffer
	count, err := Run(context.Background(), desc, mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if mock.Requests[0].PageSize != 2 {
		t.Errorf("first page size = %d, want 2", mock.Requests[0].PageSize)
	}
	// Only one record remains under the limit; the request must not ask
	// for a full page.
	if mock.Requests[1].PageSize != 1 {
		t.Errorf("second page size = %d, want 1", mock.Requests[1].PageSize)
	}
}

func TestRunEmptyFirstPage(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{{}},
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(0), mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q on empty result", buf.String())
	}
}

func TestRunMidStreamFailureKeepsEmitted(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":"b"}`), Cursor: "c1"},
		},
		FailAfterPage: 1,
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(0), mock, output.NewWriter(&buf))
	if !errors.Is(err, ddqerrors.ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
	// The first page's records stay written; a stream has no rollback.
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if countLines(&buf) != 2 {
		t.Errorf("wrote %d lines, want 2", countLines(&buf))
	}
}

func TestRunMalformedRecord(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`, `{"id":`)},
		},
	}

	var buf bytes.Buffer
	count, err := Run(context.Background(), logsDescriptor(0), mock, output.NewWriter(&buf))
	if !errors.Is(err, ddqerrors.ErrSerialization) {
		t.Fatalf("err = %v, want ErrSerialization", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 record emitted before the bad one", count)
	}
}

func TestRunSinglePageDomain(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"metric":"a"}`, `{"metric":"b"}`)},
		},
	}

	desc := query.NewDescriptor(query.MetricsList, "", testRange(), 0, 0, nil)
	var buf bytes.Buffer
	count, err := Run(context.Background(), desc, mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if mock.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount)
	}
	if mock.Requests[0].PageSize != 0 {
		t.Errorf("page size = %d, want 0 for a single-page API", mock.Requests[0].PageSize)
	}
}

func TestRunLimitOnSinglePageDomain(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"metric":"a"}`, `{"metric":"b"}`, `{"metric":"c"}`)},
		},
	}

	desc := query.NewDescriptor(query.MetricsList, "", testRange(), 2, 0, nil)
	var buf bytes.Buffer
	count, err := Run(context.Background(), desc, mock, output.NewWriter(&buf))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestRunPreservesRecordOrder(t *testing.T) {
	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"n":1}`, `{"n":2}`), Cursor: "c1"},
			{Records: datadog.RawRecords(`{"n":3}`, `{"n":4}`)},
		},
	}

	var buf bytes.Buffer
	if _, err := Run(context.Background(), logsDescriptor(0), mock, output.NewWriter(&buf)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for i, line := range lines {
		var rec struct {
			N int `json:"n"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if rec.N != i+1 {
			t.Errorf("line %d holds record %d, want fetch order preserved", i, rec.N)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &datadog.MockCaller{
		Pages: []*datadog.Page{
			{Records: datadog.RawRecords(`{"id":"a"}`)},
		},
	}

	var buf bytes.Buffer
	_, err := Run(ctx, logsDescriptor(0), mock, output.NewWriter(&buf))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
