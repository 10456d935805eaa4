package repository

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNewPageScenarios(t *testing.T) {
	cases := []struct {
		name     string
		size     int
		skip     int64
		total    int64
		next     bool
		previous bool
		number   int64
	}{
		{name: "middle page", size: 2, skip: 2, total: 5, next: true, previous: true, number: 2},
		{name: "last short page", size: 1, skip: 4, total: 5, next: false, previous: true, number: 5},
		{name: "first page", size: 2, skip: 0, total: 5, next: true, previous: false, number: 1},
		{name: "only page", size: 3, skip: 0, total: 3, next: false, previous: false, number: 1},
		{name: "empty result", size: 0, skip: 0, total: 0, next: false, previous: false, number: 1},
		{name: "empty page past the end", size: 0, skip: 10, total: 5, next: false, previous: true, number: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := make([]int, tc.size)
			page := NewPage(data, tc.skip, tc.total)

			if page.CurrentPageSize != tc.size {
				t.Fatalf("currentPageSize = %d, want %d", page.CurrentPageSize, tc.size)
			}
			if page.HasNextPage != tc.next {
				t.Fatalf("hasNextPage = %v, want %v", page.HasNextPage, tc.next)
			}
			if page.HasPreviousPage != tc.previous {
				t.Fatalf("hasPreviousPage = %v, want %v", page.HasPreviousPage, tc.previous)
			}
			if page.PageNumber != tc.number {
				t.Fatalf("pageNumber = %d, want %d", page.PageNumber, tc.number)
			}
			if page.Total != tc.total {
				t.Fatalf("total = %d, want %d", page.Total, tc.total)
			}
		})
	}
}

func TestPageMetadataProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("next page exists iff documents remain past this page", prop.ForAll(
		func(size int, skip, extra int64) bool {
			data := make([]int, size)
			total := skip + int64(size) + extra
			page := NewPage(data, skip, total)
			return page.HasNextPage == (extra > 0)
		},
		gen.IntRange(0, 50),
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
	))

	properties.Property("previous page exists iff the query skipped documents", prop.ForAll(
		func(size int, skip, total int64) bool {
			page := NewPage(make([]int, size), skip, total)
			return page.HasPreviousPage == (skip > 0)
		},
		gen.IntRange(0, 50),
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 2000),
	))

	properties.Property("page number is floor(skip/size)+1 on non-empty pages", prop.ForAll(
		func(size int, pageIndex int64) bool {
			skip := pageIndex * int64(size)
			page := NewPage(make([]int, size), skip, skip+int64(size))
			return page.PageNumber == pageIndex+1
		},
		gen.IntRange(1, 50),
		gen.Int64Range(0, 100),
	))

	properties.Property("empty pages report page number 1", prop.ForAll(
		func(skip, total int64) bool {
			page := NewPage([]int{}, skip, total)
			return page.PageNumber == 1
		},
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1000),
	))

	properties.TestingRun(t)
}
