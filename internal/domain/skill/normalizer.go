package skill

import (
	"sort"
	"strings"
)

type Set map[string]struct{}

// Normalize canonicalizes free-text skill strings. Comma-delimited input is split on commas only,
// so multi-word skills survive; a comma-free string that is not itself a known alias is split on
// whitespace.
func Normalize(inputs ...string) Set {
	out := make(Set)
	for _, in := range inputs {
		if strings.Contains(in, ",") {
			for _, part := range strings.Split(in, ",") {
				out.add(part)
			}
			continue
		}
		phrase := cleanToken(in)
		if phrase == "" {
			continue
		}
		if isAlias(phrase) {
			out.add(phrase)
			continue
		}
		for _, f := range strings.Fields(phrase) {
			out.add(f)
		}
	}
	return out
}

// NormalizeList treats every element as one skill.
func NormalizeList(items []string) Set {
	out := make(Set, len(items))
	for _, it := range items {
		out.add(it)
	}
	return out
}

func cleanToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

func (s Set) add(raw string) {
	t := cleanToken(raw)
	if t == "" {
		return
	}
	s[Canonical(t)] = struct{}{}
}

func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Intersect(o Set) Set {
	out := make(Set)
	for k := range s {
		if o.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

func (s Set) Difference(o Set) Set {
	out := make(Set)
	for k := range s {
		if !o.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}

func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
