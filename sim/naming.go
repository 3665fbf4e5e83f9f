package sim

import (
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Name is a hierarchical name that includes a series of tokens separated
// by dots.
type Name struct {
	Tokens []NameToken
}

// NameToken is a token of a name.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName parses a name string and returns a Name object.
func ParseName(sname string) Name {
	tokens := strings.Split(sname, ".")
	name := Name{Tokens: make([]NameToken, len(tokens))}

	for i, token := range tokens {
		name.Tokens[i] = parseNameToken(token)
	}

	return name
}

// String converts the name back to its dotted form.
func (n Name) String() string {
	parts := make([]string, len(n.Tokens))

	for i, t := range n.Tokens {
		var sb strings.Builder

		sb.WriteString(t.ElemName)

		for _, idx := range t.Index {
			sb.WriteString("[" + strconv.Itoa(idx) + "]")
		}

		parts[i] = sb.String()
	}

	return strings.Join(parts, ".")
}

// JoinName builds the hierarchical name of a child element.
func JoinName(parent, child string) string {
	if parent == "" {
		return child
	}

	return parent + "." + child
}

func parseNameToken(token string) NameToken {
	bracketMustMatch(token)

	ts := strings.Split(token, "[")
	elemName := ts[0]

	indices := make([]int, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		index, err := strconv.Atoi(ts[i][0 : len(ts[i])-1])
		if err != nil {
			panic("name index must be integer")
		}

		indices[i-1] = index
	}

	return NameToken{ElemName: elemName, Index: indices}
}

func bracketMustMatch(name string) {
	openBracketCount := 0

	for _, c := range name {
		switch c {
		case '[':
			openBracketCount++
		case ']':
			openBracketCount--
			if openBracketCount < 0 {
				panic("name bracket must match")
			}
		}
	}

	if openBracketCount != 0 {
		panic("name bracket must match")
	}
}

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a dot-separated hierarchy of non-empty elements, and elements in
// a series use square-bracket indices, e.g. "Case.Branch[2]".
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + name + " is not valid: " + r.(string))
		}
	}()

	if name == "" {
		panic("empty name")
	}

	parsed := ParseName(name)
	for _, t := range parsed.Tokens {
		if t.ElemName == "" {
			panic("empty element")
		}
	}
}
