package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{" / ", "", false},
		{"console", "/console", false},
		{"/console/ops/", "/console/ops", false},
		{"a//b", "/a/b", false},
		{"/../", "", true},
		{"/a/./b", "", true},
		{"https://host/x", "", true},
		{"/x?y", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeBasePath(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NormalizeBasePath(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("NormalizeBasePath(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
}

func TestWrapBasePath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := WrapBasePath("/console", mux)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console", nil))
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("bare base status = %d", rec.Code)
	}
}
