package pattern_test

import (
	"fmt"
	"regexp"

	"github.com/bashc-dev/bashc/pattern"
)

// ExampleRegexp shows the check codegen runs on a literal case-clause or
// modifier pattern: the pattern text is translated to anchored regexp
// source to confirm it is valid glob syntax. Codegen then passes the
// pattern text itself, not this regexp, to the runtime's $.globMatch
// helper; regexp.MatchString here shows what the translation matches.
func ExampleRegexp() {
	pat := "*.txt"
	fmt.Println(pat)

	expr, err := pattern.Regexp(pat, true)
	if err != nil {
		return
	}
	fmt.Println(expr)

	rx := regexp.MustCompile(expr)
	fmt.Println(rx.MatchString("readme.txt"))
	fmt.Println(rx.MatchString("readme.txt.bak"))
	// Output:
	// *.txt
	// (?s)^.*\.txt$
	// true
	// false
}
