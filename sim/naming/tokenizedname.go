package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A Name is a hierarchical name made of dot-separated elements, for example
// "Link[0].Transmitter".
type Name struct {
	Tokens []NameToken
}

// A NameToken is one element of a name with its indices.
type NameToken struct {
	ElemName string
	Index    []int
}

// String reassembles the token.
func (t NameToken) String() string {
	var b strings.Builder

	b.WriteString(t.ElemName)

	for _, i := range t.Index {
		fmt.Fprintf(&b, "[%d]", i)
	}

	return b.String()
}

// String reassembles the name.
func (n Name) String() string {
	tokens := make([]string, len(n.Tokens))
	for i, t := range n.Tokens {
		tokens[i] = t.String()
	}

	return strings.Join(tokens, ".")
}

// ParseName splits a name into its elements. It only checks the index
// syntax. Use Validate for the naming convention.
func ParseName(s string) (Name, error) {
	elems := strings.Split(s, ".")
	n := Name{Tokens: make([]NameToken, 0, len(elems))}

	for _, elem := range elems {
		token, err := parseToken(elem)
		if err != nil {
			return Name{}, fmt.Errorf("element %q: %w", elem, err)
		}

		n.Tokens = append(n.Tokens, token)
	}

	return n, nil
}

func parseToken(elem string) (NameToken, error) {
	base, rest, hasIndex := strings.Cut(elem, "[")
	token := NameToken{ElemName: base}

	if strings.ContainsRune(base, ']') {
		return token, errors.New("unmatched ]")
	}

	for hasIndex {
		digits, after, closed := strings.Cut(rest, "]")
		if !closed {
			return token, errors.New("unmatched [")
		}

		index, err := strconv.Atoi(digits)
		if err != nil || index < 0 {
			return token, fmt.Errorf("index %q is not a number", digits)
		}

		token.Index = append(token.Index, index)

		if after == "" {
			break
		}

		if after[0] != '[' {
			return token, fmt.Errorf("unexpected %q after an index", after)
		}

		rest = after[1:]
	}

	return token, nil
}

// Validate checks a name against the naming convention:
//  1. Elements are separated by single dots, so "A..B" and "A.B." are
//     invalid.
//  2. Elements are CamelCase and start with a capital letter.
//  3. Elements contain no underscores, dashes, quotes or spaces.
//  4. Elements in a series use square-bracket indices, as in "Port[2]".
func Validate(name string) error {
	n, err := ParseName(name)
	if err != nil {
		return fmt.Errorf("name %q: %w", name, err)
	}

	for _, token := range n.Tokens {
		if err := validateElem(token.ElemName); err != nil {
			return fmt.Errorf("name %q: %w", name, err)
		}
	}

	return nil
}

func validateElem(elem string) error {
	if elem == "" {
		return errors.New("empty element")
	}

	if i := strings.IndexAny(elem, "_\"'- "); i >= 0 {
		return fmt.Errorf("element %q contains %q", elem, elem[i])
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		return fmt.Errorf("element %q does not start with a capital letter",
			elem)
	}

	return nil
}

// NameMustBeValid panics if the name does not follow the naming convention.
func NameMustBeValid(name string) {
	if err := Validate(name); err != nil {
		panic(err)
	}
}

// IsValidName tells if the name follows the naming convention.
func IsValidName(name string) bool {
	return Validate(name) == nil
}
