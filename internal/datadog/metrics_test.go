package datadog

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ddqhq/ddq/internal/query"
)

func TestFetchMetricsQueryPage(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"series": [{
				"metric": "system.cpu.user",
				"display_name": "system.cpu.user",
				"scope": "host:web-1",
				"tag_set": ["host:web-1"],
				"pointlist": [[1705315200000, 12.5], [1705315260000, 13.0], [1705315320000, null]]
			}, {
				"metric": "system.cpu.user",
				"scope": "host:web-2",
				"pointlist": [[1705315200000, 7.25]]
			}]
		}`))
	})

	client, _ := testClient(t, handler)
	req := PageRequest{
		Query: "avg:system.cpu.user{*} by {host}",
		From:  time.Unix(1705315200, 0),
		To:    time.Unix(1705318800, 0),
	}
	page, err := client.Caller(query.MetricsQuery).FetchPage(context.Background(), req)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if gotPath != "/api/v1/query" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFrom != "1705315200" || gotTo != "1705318800" {
		t.Errorf("from/to = %q/%q, want unix seconds", gotFrom, gotTo)
	}
	if gotQuery != "avg:system.cpu.user{*} by {host}" {
		t.Errorf("query = %q", gotQuery)
	}

	// Null-valued point dropped: 2 + 1 points survive.
	if len(page.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(page.Records))
	}
	if page.Cursor != "" {
		t.Errorf("metrics pages must not carry a cursor, got %q", page.Cursor)
	}

	var first MetricPoint
	if err := json.Unmarshal(page.Records[0], &first); err != nil {
		t.Fatalf("decoding first point: %v", err)
	}
	if first.Metric != "system.cpu.user" || first.Scope != "host:web-1" {
		t.Errorf("first point = %+v", first)
	}
	if first.Timestamp != 1705315200 {
		t.Errorf("Timestamp = %d, want seconds not milliseconds", first.Timestamp)
	}
	if first.Value != 12.5 {
		t.Errorf("Value = %v, want 12.5", first.Value)
	}

	var third MetricPoint
	if err := json.Unmarshal(page.Records[2], &third); err != nil {
		t.Fatalf("decoding third point: %v", err)
	}
	if third.Scope != "host:web-2" || third.Value != 7.25 {
		t.Errorf("third point = %+v, want the second series' sample", third)
	}
}

func TestFetchMetricsQueryPageEmptySeries(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "series": []}`))
	})
	client, _ := testClient(t, handler)
	page, err := client.Caller(query.MetricsQuery).FetchPage(context.Background(), PageRequest{
		Query: "avg:absent.metric{*}",
		From:  time.Unix(1705315200, 0),
		To:    time.Unix(1705318800, 0),
	})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Records) != 0 {
		t.Errorf("got %d records, want 0", len(page.Records))
	}
}

func TestFetchMetricsListPage(t *testing.T) {
	var gotPath, gotFrom string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("from")
		_, _ = w.Write([]byte(`{"metrics": ["system.cpu.user", "system.mem.used"], "from": "1705315200"}`))
	})

	client, _ := testClient(t, handler)
	page, err := client.Caller(query.MetricsList).FetchPage(context.Background(), PageRequest{
		From: time.Unix(1705315200, 0),
		To:   time.Unix(1705318800, 0),
	})
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if gotPath != "/api/v1/metrics" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFrom != "1705315200" {
		t.Errorf("from = %q, want unix seconds", gotFrom)
	}
	if len(page.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(page.Records))
	}

	var name MetricName
	if err := json.Unmarshal(page.Records[0], &name); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if name.Metric != "system.cpu.user" {
		t.Errorf("first metric = %q", name.Metric)
	}
}
