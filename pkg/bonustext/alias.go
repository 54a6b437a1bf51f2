package bonustext

import (
	"regexp"
)

// Match is a number found next to an alias in free text.
type Match struct {
	Alias   string
	Value   float64
	Percent bool
}

// Matcher finds stat values in free text by alias. Only punctuation, spaces
// and one of the connecting verbs may sit between an alias and its number, so
// a short alias never takes the value of a longer stat name that starts with
// it.
type Matcher struct {
	aliases map[string][]string
	res     map[string]*regexp.Regexp
}

// NewMatcher compiles one pattern per alias. aliases maps a canonical stat
// name to its in-text spellings; the canonical name itself is always tried
// first.
func NewMatcher(aliases map[string][]string) *Matcher {
	m := &Matcher{
		aliases: make(map[string][]string, len(aliases)),
		res:     make(map[string]*regexp.Regexp),
	}
	for name, spellings := range aliases {
		m.aliases[name] = append([]string{name}, spellings...)
	}
	for _, spellings := range m.aliases {
		for _, a := range spellings {
			if _, ok := m.res[a]; !ok {
				m.res[a] = aliasRe(a)
			}
		}
	}
	return m
}

// connectVerbs may sit between an alias and its number.
var connectVerbs = `增加|提高|提升|上升`

func aliasRe(alias string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(alias) +
		`[^\d\p{L}]{0,12}?(?:(?:` + connectVerbs + `)[^\d\p{L}]{0,12}?)?(\d+(?:\.\d+)?)\s*(%)?`)
}

// Spellings returns the spellings tried for name, canonical first.
func (m *Matcher) Spellings(name string) []string {
	if s, ok := m.aliases[name]; ok {
		return s
	}
	return []string{name}
}

// Find returns every match for name in text, in spelling order. Names without
// a configured alias list are matched by the name alone. Find does not compile
// patterns for unknown names into the shared table, so a Matcher is safe for
// concurrent use.
func (m *Matcher) Find(text, name string) []Match {
	text = Clean(text)
	var out []Match
	for _, a := range m.Spellings(name) {
		re, ok := m.res[a]
		if !ok {
			re = aliasRe(a)
		}
		for _, sm := range re.FindAllStringSubmatch(text, -1) {
			v, ok := ParseNumber(sm[1])
			if !ok {
				continue
			}
			out = append(out, Match{Alias: a, Value: v, Percent: sm[2] != ""})
		}
	}
	return out
}
