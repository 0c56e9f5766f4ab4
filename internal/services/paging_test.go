package services

import (
	"math"
	"testing"
)

func TestPaginate(t *testing.T) {
	all := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name     string
		page     PageRequest
		want     []int
		wantInfo PageInfo
	}{
		{"first page", PageRequest{PageIndex: 0, PageSize: 3}, []int{0, 1, 2}, PageInfo{0, 3, 7}},
		{"last partial page", PageRequest{PageIndex: 2, PageSize: 3}, []int{6}, PageInfo{2, 3, 7}},
		{"past the end", PageRequest{PageIndex: 3, PageSize: 3}, []int{}, PageInfo{3, 3, 7}},
		{"exact boundary", PageRequest{PageIndex: 1, PageSize: 7}, []int{}, PageInfo{1, 7, 7}},
		{"default size", PageRequest{}, all, PageInfo{0, DefaultPageSize, 7}},
		{"huge index", PageRequest{PageIndex: math.MaxInt, PageSize: math.MaxInt}, []int{}, PageInfo{math.MaxInt, math.MaxInt, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info := Paginate(all, tt.page)
			if info != tt.wantInfo {
				t.Errorf("Expected info %+v, got %+v", tt.wantInfo, info)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestPaginateCopiesWindow(t *testing.T) {
	all := []string{"a", "b", "c"}
	window, _ := Paginate(all, PageRequest{PageSize: 2})
	window[0] = "z"
	if all[0] != "a" {
		t.Error("Expected the window not to alias the source slice")
	}
}
