package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Page
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", in: Page{}, wantPage: 1, wantLimit: DefaultPerPage, wantOffset: 0},
		{name: "third page", in: Page{Page: 3, PerPage: 10}, wantPage: 3, wantLimit: 10, wantOffset: 20},
		{name: "clamped", in: Page{Page: 2, PerPage: 1000}, wantPage: 2, wantLimit: MaxPerPage, wantOffset: MaxPerPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, NewMeta(Page{Page: 1, PerPage: 10}, 21).TotalPages)
	assert.Equal(t, 0, NewMeta(Page{Page: 1, PerPage: 10}, 0).TotalPages)
	assert.Equal(t, 1, NewMeta(Page{Page: 1, PerPage: 10}, 10).TotalPages)
}
