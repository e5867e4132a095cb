package matrix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"collection-route-service/internal/domain"
	"collection-route-service/internal/instance"
	"collection-route-service/internal/ports"
)

func testNodes() []ports.NodePoint {
	return []ports.NodePoint{
		{ID: "D", Position: domain.Coordinates{Lat: 52.52, Lon: 13.405}},
		{ID: "C1", Position: domain.Coordinates{Lat: 52.53, Lon: 13.41}},
	}
}

func TestOSRMFetchMatrixConvertsUnits(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "Ok",
			"distances": [[0, 1500], [2500, 0]],
			"durations": [[0, 120], [180, 0]]
		}`))
	}))
	defer srv.Close()

	p := NewOSRMProvider(srv.URL)
	m, err := p.FetchMatrix(context.Background(), testNodes())
	if err != nil {
		t.Fatalf("fetch matrix: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/table/v1/driving/") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "annotations=distance%2Cduration") {
		t.Fatalf("expected distance,duration annotations, got query %q", gotQuery)
	}
	if gotUA == "" {
		t.Fatal("expected a User-Agent header")
	}

	if got := m.DistanceKm[instance.Arc{From: "D", To: "C1"}]; got != 1.5 {
		t.Fatalf("expected 1.5 km, got %v", got)
	}
	if got := m.DistanceKm[instance.Arc{From: "C1", To: "D"}]; got != 2.5 {
		t.Fatalf("expected 2.5 km, got %v", got)
	}
	if got := m.DurationMin[instance.Arc{From: "D", To: "C1"}]; got != 2 {
		t.Fatalf("expected 2 min, got %v", got)
	}
	if got := m.DurationMin[instance.Arc{From: "C1", To: "D"}]; got != 3 {
		t.Fatalf("expected 3 min, got %v", got)
	}
	if _, ok := m.DistanceKm[instance.Arc{From: "D", To: "D"}]; ok {
		t.Fatal("self arcs must not be stored")
	}
}

func TestOSRMFetchMatrixNullCell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": "Ok",
			"distances": [[0, null], [2500, 0]],
			"durations": [[0, 120], [180, 0]]
		}`))
	}))
	defer srv.Close()

	_, err := NewOSRMProvider(srv.URL).FetchMatrix(context.Background(), testNodes())
	if err == nil || !strings.Contains(err.Error(), "missing entry for (D, C1)") {
		t.Fatalf("expected missing-entry error, got %v", err)
	}
}

func TestOSRMFetchMatrixServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoTable"}`))
	}))
	defer srv.Close()

	_, err := NewOSRMProvider(srv.URL).FetchMatrix(context.Background(), testNodes())
	if err == nil || !strings.Contains(err.Error(), "NoTable") {
		t.Fatalf("expected service code error, got %v", err)
	}
}

func TestOSRMFetchMatrixHTTPError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "tile backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewOSRMProvider(srv.URL).FetchMatrix(context.Background(), testNodes())
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestOSRMFetchMatrixRequiresTwoNodes(t *testing.T) {
	_, err := NewOSRMProvider("http://localhost").FetchMatrix(context.Background(), testNodes()[:1])
	if err == nil {
		t.Fatal("expected error for fewer than two nodes")
	}
}
