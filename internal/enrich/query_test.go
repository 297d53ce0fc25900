package enrich_test

import (
	"reflect"
	"testing"

	"shelf/internal/enrich"
)

func TestParseTitleForSearch(t *testing.T) {
	cases := []struct {
		title string
		names []string
		year  string
	}{
		{"Matrix (1999)", []string{"Matrix"}, "1999"},
		{"1994 - Leon", []string{"Leon"}, "1994"},
		{"Spirited Away / Сэн и Тихиро", []string{"Spirited Away", "Сэн и Тихиро"}, ""},
		{"Heat, 1995", []string{"Heat"}, "1995"},
		{"Blade Runner 1982 final cut", []string{"Blade Runner final cut"}, "1982"},
		{"Alien / ALIEN (1979)", []string{"Alien"}, "1979"},
		{"Leon (1994) / The Professional", []string{"Leon", "The Professional"}, "1994"},
		{"1917", []string{"1917"}, ""},
		{"  /  ", nil, ""},
		{"", nil, ""},
	}
	for _, tc := range cases {
		got := enrich.ParseTitleForSearch(tc.title)
		if !reflect.DeepEqual(got.Names, tc.names) || got.Year != tc.year {
			t.Fatalf("ParseTitleForSearch(%q) = %q/%q, want %q/%q", tc.title, got.Names, got.Year, tc.names, tc.year)
		}
	}
}
