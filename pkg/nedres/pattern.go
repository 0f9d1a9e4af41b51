/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"regexp"
	"strings"
)

// Import patterns: '*' matches any run of characters within one package
// segment (it stops at dots), '**' crosses segment boundaries. Everything
// else is literal. Matching is whole-name.

func containsWildcards(spec string) bool {
	return strings.Contains(spec, "*")
}

type importPattern struct {
	re *regexp.Regexp
}

func newImportPattern(spec string) (*importPattern, error) {
	var b strings.Builder
	b.WriteByte('^')
	for i := 0; i < len(spec); {
		switch {
		case strings.HasPrefix(spec[i:], "**"):
			b.WriteString(`.*`)
			i += 2
		case spec[i] == '*':
			b.WriteString(`[^.]*`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(spec[i : i+1]))
			i++
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	return &importPattern{re: re}, nil
}

func (p *importPattern) matches(qname string) bool {
	return p.re.MatchString(qname)
}
