package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

// GeneratedHeader marks files owned by the generator
const GeneratedHeader = "// Code generated by minimvc. DO NOT EDIT."

// ModuleTemplate renders autogen_module.go for one package
const ModuleTemplate = `{{header}}

package {{.PackageName}}

{{.Imports}}
// Components describes the annotated types declared in this package
func Components() []mvc.TypeDescriptor {
	return []mvc.TypeDescriptor{
{{- range .Components}}
		{{template "component" .}}
{{- end}}
	}
}
`

const componentTemplate = `{{define "component"}}{
			Package: {{printf "%q" .Package}},
			Name:    {{printf "%q" .Name}},
			Role:    {{.Role}},
{{- if .ExplicitName}}
			ExplicitName: {{printf "%q" .ExplicitName}},
{{- end}}
{{- if .Capabilities}}
			Capabilities: []string{ {{- range $i, $c := .Capabilities}}{{if $i}}, {{end}}{{printf "%q" $c}}{{end -}} },
{{- end}}
{{- if .BasePath}}
			BasePath: {{printf "%q" .BasePath}},
{{- end}}
			New: func() (any, error) { return &{{.Name}}{}, nil },
{{- if .Fields}}
			Fields: []mvc.FieldDescriptor{
{{- range .Fields}}
				{{template "field" .}}
{{- end}}
			},
{{- end}}
{{- if .Methods}}
			Methods: []mvc.MethodDescriptor{
{{- range .Methods}}
				{{template "method" .}}
{{- end}}
			},
{{- end}}
		},{{end}}`

const fieldTemplate = `{{define "field"}}{
					Name:   {{printf "%q" .Name}},
					Type:   {{printf "%q" .Type}},
					Inject: true,
{{- if .Qualifier}}
					Qualifier: {{printf "%q" .Qualifier}},
{{- end}}
					Assign: func(owner, value any) error {
						return mvc.Assign(&owner.(*{{.Owner}}).{{.Name}}, value)
					},
				},{{end}}`

const methodTemplate = `{{define "method"}}{
					Name:    {{printf "%q" .Name}},
					Path:    {{printf "%q" .Path}},
					Routed:  true,
					Returns: {{.Returns}},
{{- if .Params}}
					Params: []mvc.ParamDescriptor{
{{- range .Params}}
						{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}{{if .Value}}, Value: {{printf "%q" .Value}}{{end}}},
{{- end}}
					},
{{- end}}
					Invoke: func(owner any, args []any) (any, error) {
{{- if eq .Result "none"}}
						{{.Call}}
						return nil, nil
{{- else if eq .Result "value"}}
						return {{.Call}}, nil
{{- else if eq .Result "error"}}
						return nil, {{.Call}}
{{- else}}
						return {{.Call}}
{{- end}}
					},
				},{{end}}`

var moduleTmpl = template.Must(
	template.New("module").
		Funcs(template.FuncMap{"header": func() string { return GeneratedHeader }}).
		Parse(ModuleTemplate + componentTemplate + fieldTemplate + methodTemplate),
)

// RenderModule executes the module template; the result is not yet gofmt'd
func RenderModule(data *ModuleData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("module data cannot be nil")
	}
	var buf bytes.Buffer
	if err := moduleTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template module: %w", err)
	}
	return buf.String(), nil
}
