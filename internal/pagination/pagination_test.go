package pagination

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		in        PageRequest
		wantPage  int
		wantLimit int
	}{
		{"defaults", PageRequest{}, 1, 10},
		{"negative_page", PageRequest{Page: -5, Limit: 20}, 1, 20},
		{"zero_limit", PageRequest{Page: 3, Limit: 0}, 3, 10},
		{"negative_limit", PageRequest{Page: 2, Limit: -1}, 2, 10},
		{"passthrough", PageRequest{Page: 4, Limit: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Clamp()
			if req.Page != tt.wantPage || req.Limit != tt.wantLimit {
				t.Errorf("Clamp() = {%d %d}, want {%d %d}", req.Page, req.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	first := PageRequest{Page: 1, Limit: 10}
	if got := first.Offset(); got != 0 {
		t.Errorf("expected offset 0, got %d", got)
	}
	third := PageRequest{Page: 3, Limit: 10}
	if got := third.Offset(); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		limit     int
		wantPages int
	}{
		{"exact_fit", 20, 10, 2},
		{"remainder", 15, 10, 2},
		{"single_page", 3, 10, 1},
		{"empty", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(PageRequest{Page: 1, Limit: tt.limit}, tt.total)
			if meta.Pages != tt.wantPages {
				t.Errorf("expected %d pages for total=%d limit=%d, got %d",
					tt.wantPages, tt.total, tt.limit, meta.Pages)
			}
			if meta.Total != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, meta.Total)
			}
		})
	}
}
