package annotations

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// annotationAST is the grammar of an annotation body (the text after "//")
//
//	mvc::route /add
//	mvc::service -Name=greeter -Implements=svc.Greeter
type annotationAST struct {
	Namespace string       `parser:"@Word Sep"`
	Type      string       `parser:"@Word"`
	Args      []string     `parser:"(@Word | @String)*"`
	Options   []*optionAST `parser:"@@*"`
}

type optionAST struct {
	Pos   lexer.Position
	Flag  string  `parser:"@Flag"`
	Value *string `parser:"(Equals (@Word | @String))?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Sep", Pattern: `::`},
	{Name: "Flag", Pattern: `-[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s=":]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses annotation comments and validates them against schemas
type Parser struct {
	grammar  *participle.Parser[annotationAST]
	registry AnnotationRegistry
}

// NewParser creates a parser backed by registry; nil means DefaultRegistry
func NewParser(registry AnnotationRegistry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{
		grammar: participle.MustBuild[annotationAST](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is an mvc annotation
func IsAnnotation(comment string) bool {
	body, ok := annotationBody(comment)
	return ok && strings.HasPrefix(body, Prefix+"::")
}

func annotationBody(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(comment, "//")), true
}

// ParseAnnotation parses one annotation comment line
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	body, ok := annotationBody(comment)
	if !ok || !strings.HasPrefix(body, Prefix+"::") {
		return nil, newError(location, comment, "annotation must start with '//%s::'", Prefix)
	}

	ast, err := p.grammar.ParseString(location.File, body)
	if err != nil {
		return nil, wrapError(location, comment, err, "malformed annotation")
	}

	annType, err := ParseAnnotationType(ast.Type)
	if err != nil {
		return nil, wrapError(location, comment, err, "invalid annotation")
	}

	schema, err := p.registry.GetSchema(annType)
	if err != nil {
		return nil, wrapError(location, comment, err, "invalid annotation")
	}

	parsed := &ParsedAnnotation{
		Type:       annType,
		Args:       ast.Args,
		Parameters: make(map[string]any),
		Location:   location,
		Raw:        comment,
	}

	if err := applyPositional(parsed, schema); err != nil {
		return nil, wrapError(location, comment, err, "invalid %s annotation", annType)
	}
	if err := applyOptions(parsed, schema, ast.Options); err != nil {
		return nil, wrapError(location, comment, err, "invalid %s annotation", annType)
	}
	return parsed, nil
}

func applyPositional(parsed *ParsedAnnotation, schema AnnotationSchema) error {
	if len(parsed.Args) > len(schema.Positional) {
		return fmt.Errorf("unexpected argument '%s'", parsed.Args[len(schema.Positional)])
	}
	for i, spec := range schema.Positional {
		if i >= len(parsed.Args) {
			if spec.Required {
				return fmt.Errorf("missing required argument '%s'", spec.Name)
			}
			continue
		}
		if spec.Validator != nil {
			if err := spec.Validator(parsed.Args[i]); err != nil {
				return fmt.Errorf("argument '%s': %w", spec.Name, err)
			}
		}
	}
	return nil
}

func applyOptions(parsed *ParsedAnnotation, schema AnnotationSchema, opts []*optionAST) error {
	for _, opt := range opts {
		name := strings.TrimPrefix(opt.Flag, "-")
		spec, ok := schema.Parameters[name]
		if !ok {
			return fmt.Errorf("unknown parameter '%s'%s", name, knownParameters(schema))
		}
		if _, dup := parsed.Parameters[name]; dup {
			return fmt.Errorf("parameter '%s' given more than once", name)
		}

		value, err := convertValue(spec, opt.Value)
		if err != nil {
			return fmt.Errorf("parameter '%s': %w", name, err)
		}
		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return fmt.Errorf("parameter '%s': %w", name, err)
			}
		}
		parsed.Parameters[name] = value
	}

	for name, spec := range schema.Parameters {
		if _, given := parsed.Parameters[name]; spec.Required && !given {
			return fmt.Errorf("missing required parameter '%s'", name)
		}
	}
	return nil
}

func convertValue(spec ParameterSpec, raw *string) (any, error) {
	switch spec.Type {
	case BoolType:
		if raw == nil {
			return true, nil
		}
		b, err := strconv.ParseBool(*raw)
		if err != nil {
			return nil, fmt.Errorf("expected a bool, got '%s'", *raw)
		}
		return b, nil
	case StringSliceType:
		if raw == nil {
			return nil, fmt.Errorf("requires a value")
		}
		var out []string
		for _, part := range strings.Split(*raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		if raw == nil {
			return nil, fmt.Errorf("requires a value")
		}
		return *raw, nil
	}
}

func knownParameters(schema AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return fmt.Sprintf(" (%s takes no parameters)", schema.Type)
	}
	names := make([]string, 0, len(schema.Parameters))
	for n := range schema.Parameters {
		names = append(names, "-"+n)
	}
	sort.Strings(names)
	return fmt.Sprintf(" (valid: %s)", strings.Join(names, ", "))
}
