package mdutil_test

import (
	"testing"

	"github.com/ekropotin/quickmark-go/internal/rules/mdutil"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Foo Bar", "foo-bar"},
		{"Foo  Bar", "foo--bar"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Snake_Case_Name", "snake_case_name"},
		{"Punctuation! Is? Stripped.", "punctuation-is-stripped"},
		{"", ""},
	}
	for _, c := range cases {
		if got := mdutil.Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
