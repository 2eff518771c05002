package pattern

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"testing"

	"github.com/go-quicktest/qt"
)

// regexpTests exercises the glob shapes bashc's own call sites actually
// produce: a bare case-clause pattern ("*.txt"), a parameter-expansion
// modifier pattern (the text between "%%"/"##"/"/" and its replacement),
// and character-class forms Bash scripts commonly write inline. Every
// call site anchors, so these tests only cover anchored=true --
// globPattern in codegen/word.go never passes false.
var regexpTests = []struct {
	pat     string
	want    string
	wantErr bool

	mustMatch    []string
	mustNotMatch []string
}{
	{pat: ``, want: `(?s)^$`},
	{pat: `foo`, want: `(?s)^foo$`},
	{pat: `.`, want: `(?s)^\.$`},
	{
		pat: `*.txt`, want: `(?s)^.*\.txt$`,
		mustMatch:    []string{"readme.txt", ".txt"},
		mustNotMatch: []string{"readme.txt.bak"},
	},
	{
		pat: `file?.log`, want: `(?s)^file.\.log$`,
		mustMatch:    []string{"file1.log", "fileA.log"},
		mustNotMatch: []string{"file12.log"},
	},
	{pat: `\*`, want: `(?s)^\*$`},
	{pat: `\`, wantErr: true},
	{
		pat: `[abc]`, want: `(?s)^[abc]$`,
		mustMatch:    []string{"a", "b", "c"},
		mustNotMatch: []string{"d"},
	},
	{
		pat: `[!abc]`, want: `(?s)^[^abc]$`,
		mustMatch:    []string{"d"},
		mustNotMatch: []string{"a"},
	},
	{pat: `[a-z]`, want: `(?s)^[a-z]$`},
	{pat: `[z-a]`, wantErr: true},
	{pat: `[`, wantErr: true},
	{pat: `[ab`, wantErr: true},
	{
		pat: `[[:digit:]]*`, want: `(?s)^[[:digit:]].*$`,
		mustMatch: []string{"0x"},
	},
	{pat: `[[:wrong:]]`, wantErr: true},
	{pat: `(`, want: `(?s)^\($`},
	{pat: `a|b`, want: `(?s)^a\|b$`},
}

func TestRegexp(t *testing.T) {
	t.Parallel()
	for i, tc := range regexpTests {
		t.Run(fmt.Sprintf("%02d", i), func(t *testing.T) {
			got, gotErr := Regexp(tc.pat, true)
			if tc.wantErr && gotErr == nil {
				t.Fatalf("Regexp(%q, true) did not error", tc.pat)
			}
			if !tc.wantErr && gotErr != nil {
				t.Fatalf("Regexp(%q, true) errored with %q", tc.pat, gotErr)
			}
			if tc.wantErr {
				return
			}
			if got != tc.want {
				t.Fatalf("Regexp(%q, true) got %q, wanted %q", tc.pat, got, tc.want)
			}
			if _, rxErr := syntax.Parse(got, syntax.Perl); rxErr != nil {
				t.Fatalf("regexp/syntax.Parse(%q) failed with %q", got, rxErr)
			}
			rx := regexp.MustCompile(got)
			for _, s := range tc.mustMatch {
				qt.Check(t, qt.IsTrue(rx.MatchString(s)), qt.Commentf("must match: %q", s))
			}
			for _, s := range tc.mustNotMatch {
				qt.Check(t, qt.IsFalse(rx.MatchString(s)), qt.Commentf("must not match: %q", s))
			}
		})
	}
}

// unanchoredTests covers the anchored=false path, unused by codegen today
// but part of Regexp's public contract: it skips the "^...$" wrap.
var unanchoredTests = []struct {
	pat  string
	want string
}{
	{pat: `foo`, want: `foo`},
	{pat: `foo*`, want: `(?s)foo.*`},
	{pat: `a.b`, want: `(?s)a\.b`},
}

func TestRegexpUnanchored(t *testing.T) {
	t.Parallel()
	for _, tc := range unanchoredTests {
		got, err := Regexp(tc.pat, false)
		if err != nil {
			t.Fatalf("Regexp(%q, false) errored with %q", tc.pat, err)
		}
		if got != tc.want {
			t.Fatalf("Regexp(%q, false) got %q, wanted %q", tc.pat, got, tc.want)
		}
	}
}
