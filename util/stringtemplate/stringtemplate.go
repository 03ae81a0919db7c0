// Package stringtemplate renders pre-compiled templates over indexed records, for example:
//
//	tmpl, _ := NewExpander("app=$app,level=${level[:4]}", resolveField)
//	key := tmpl.Run(fields)
//	// key == "app=nginx,level=WARN"
//
// Variables are either "$name" or "${name}" with an optional substring range "${name[start:end]}", where negative
// positions count from the end. Escaping of "$" is not supported.
package stringtemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordType is the type of records as source of string expansion
type RecordType = []string

// PartProvider provides the value of one template part from a record
type PartProvider func(source RecordType) string

// VariableResolverCreator creates the PartProvider of a variable by name
type VariableResolverCreator func(name string) (PartProvider, error)

// Expander is a compiled template
//
// Expander contains no buffer and may be copied or used concurrently.
type Expander struct {
	source    string
	parts     []PartProvider
	variables []string
}

// Empty is an empty template
var Empty = Expander{}

var partRegex = regexp.MustCompile(`\$\w+|\$\{[^}]*\}|[^$]+`)

var braceExpressionRegex = regexp.MustCompile(`^(\w+)(?:\[(-?[0-9]+)?:(-?[0-9]+)?\])?$`)

// NewExpander compiles the template, resolving each variable through createVariableResolver
//
// createVariableResolver may be nil if the template contains no variable
func NewExpander(template string, createVariableResolver VariableResolverCreator) (Expander, error) {
	if si := strings.Index(template, "$$"); si != -1 {
		return Empty, fmt.Errorf("escaping of $ at index %d of '%s' is unsupported", si, template)
	}
	tmpl := Expander{source: template}
	next := 0
	for _, loc := range partRegex.FindAllStringIndex(template, -1) {
		if loc[0] != next {
			break
		}
		next = loc[1]
		part := template[loc[0]:loc[1]]
		if part[0] != '$' {
			tmpl.parts = append(tmpl.parts, constantPart(part))
			continue
		}
		name, provider, err := compileVariable(part, createVariableResolver)
		if err != nil {
			return Empty, err
		}
		tmpl.parts = append(tmpl.parts, provider)
		tmpl.variables = append(tmpl.variables, name)
	}
	if next != len(template) {
		return Empty, fmt.Errorf("unmatched '$' at index %d of '%s'", next, template)
	}
	return tmpl, nil
}

func compileVariable(part string, createVariableResolver VariableResolverCreator) (string, PartProvider, error) {
	if part[1] != '{' {
		name := part[1:]
		provider, err := resolveVariable(name, createVariableResolver)
		return name, provider, err
	}
	expr := part[2 : len(part)-1]
	submatches := braceExpressionRegex.FindStringSubmatch(expr)
	if submatches == nil {
		return "", nil, fmt.Errorf("unrecognized variable expression '${%s}'", expr)
	}
	name := submatches[1]
	provider, err := resolveVariable(name, createVariableResolver)
	if err != nil {
		return name, nil, err
	}
	if submatches[2] == "" && submatches[3] == "" {
		return name, provider, nil
	}
	rng, err := parseRange(submatches[2], submatches[3])
	if err != nil {
		return name, nil, fmt.Errorf("invalid range in '${%s}': %w", expr, err)
	}
	return name, func(source RecordType) string {
		return rng.slice(provider(source))
	}, nil
}

func resolveVariable(name string, createVariableResolver VariableResolverCreator) (PartProvider, error) {
	if createVariableResolver == nil {
		return nil, fmt.Errorf("no variable allowed: $%s", name)
	}
	provider, err := createVariableResolver(name)
	if err != nil {
		return nil, fmt.Errorf("error creating resolver for $%s: %w", name, err)
	}
	return provider, nil
}

func constantPart(s string) PartProvider {
	return func(RecordType) string {
		return s
	}
}

// Variables returns the names of variables in the order of appearance, including duplicates
func (tmpl Expander) Variables() []string {
	return tmpl.variables
}

// IsConstant returns true if the template has no variable and always renders to the same string
func (tmpl Expander) IsConstant() bool {
	return len(tmpl.variables) == 0
}

func (tmpl Expander) String() string {
	return tmpl.source
}

// Run renders the template with given fields
func (tmpl Expander) Run(fields RecordType) string {
	switch len(tmpl.parts) {
	case 0:
		return ""
	case 1:
		return tmpl.parts[0](fields)
	}
	return string(tmpl.AppendTo(make([]byte, 0, 100), fields))
}

// AppendTo renders the template with given fields and appends the result to buf
func (tmpl Expander) AppendTo(buf []byte, fields RecordType) []byte {
	for _, provide := range tmpl.parts {
		buf = append(buf, provide(fields)...)
	}
	return buf
}

// substringRange is a Python-style [start:end] range
type substringRange struct {
	start    int
	end      int
	hasStart bool
	hasEnd   bool
}

func parseRange(startStr string, endStr string) (substringRange, error) {
	rng := substringRange{}
	if startStr != "" {
		n, err := strconv.Atoi(startStr)
		if err != nil {
			return rng, err
		}
		rng.start, rng.hasStart = n, true
	}
	if endStr != "" {
		n, err := strconv.Atoi(endStr)
		if err != nil {
			return rng, err
		}
		rng.end, rng.hasEnd = n, true
	}
	return rng, nil
}

func (rng substringRange) slice(v string) string {
	start := 0
	if rng.hasStart {
		start = clampPosition(rng.start, len(v))
	}
	end := len(v)
	if rng.hasEnd {
		end = clampPosition(rng.end, len(v))
	}
	if start >= end {
		return ""
	}
	return v[start:end]
}

// clampPosition converts a possibly negative position into [0, length]
func clampPosition(pos int, length int) int {
	if pos < 0 {
		pos += length
	}
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
