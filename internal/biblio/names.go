package biblio

import (
	"strings"
	"unicode"
)

// name is an author split into family and given names. Authors are stored as
// "Last, First Middle"; "First Last" is accepted too.
type name struct {
	Family string
	Given  []string
}

func parseName(s string) name {
	s = strings.TrimSpace(s)
	if s == "" {
		return name{}
	}
	if family, given, ok := strings.Cut(s, ","); ok {
		return name{Family: strings.TrimSpace(family), Given: strings.Fields(given)}
	}
	parts := strings.Fields(s)
	if len(parts) == 1 {
		return name{Family: parts[0]}
	}
	return name{Family: parts[len(parts)-1], Given: parts[:len(parts)-1]}
}

func parseNames(authors []string) []name {
	out := make([]name, 0, len(authors))
	for _, a := range authors {
		if n := parseName(a); n.Family != "" {
			out = append(out, n)
		}
	}
	return out
}

// initials renders "Jane Marie" as "J. M.". Hyphenated names keep the hyphen: "J.-P.".
func (n name) initials() string {
	parts := make([]string, 0, len(n.Given))
	for _, g := range n.Given {
		pieces := strings.Split(g, "-")
		for i, p := range pieces {
			r := []rune(strings.TrimSuffix(p, "."))
			if len(r) == 0 {
				continue
			}
			pieces[i] = string(unicode.ToUpper(r[0])) + "."
		}
		parts = append(parts, strings.Join(pieces, "-"))
	}
	return strings.Join(parts, " ")
}

func (n name) given() string {
	return strings.Join(n.Given, " ")
}

// invertedInitials is "Last, F. M.".
func (n name) invertedInitials() string {
	if in := n.initials(); in != "" {
		return n.Family + ", " + in
	}
	return n.Family
}

// inverted is "Last, First Middle".
func (n name) inverted() string {
	if g := n.given(); g != "" {
		return n.Family + ", " + g
	}
	return n.Family
}

// natural is "First Middle Last".
func (n name) natural() string {
	if g := n.given(); g != "" {
		return g + " " + n.Family
	}
	return n.Family
}

// initialsFirst is "F. M. Last".
func (n name) initialsFirst() string {
	if in := n.initials(); in != "" {
		return in + " " + n.Family
	}
	return n.Family
}

// joinList joins items as "a, b, and c" using conj; a serial comma is used for 3+ items
// when serial is set, and always for 2 items when pairComma is set.
func joinList(items []string, conj string, serial, pairComma bool) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		if pairComma {
			return items[0] + ", " + conj + " " + items[1]
		}
		return items[0] + " " + conj + " " + items[1]
	}
	head := strings.Join(items[:len(items)-1], ", ")
	if serial {
		return head + ", " + conj + " " + items[len(items)-1]
	}
	return head + " " + conj + " " + items[len(items)-1]
}
