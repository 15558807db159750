package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/pkg/mvc"
)

// ModuleData is the input of ModuleTemplate
type ModuleData struct {
	PackageName string
	Imports     string
	Components  []ComponentData
}

// ComponentData describes one TypeDescriptor literal
type ComponentData struct {
	Package      string
	Name         string
	Role         string // Go expression, e.g. mvc.RoleService
	ExplicitName string
	Capabilities []string
	BasePath     string
	Fields       []FieldData
	Methods      []MethodData
}

// FieldData describes one FieldDescriptor literal
type FieldData struct {
	Owner     string
	Name      string
	Type      string
	Qualifier string
}

// MethodData describes one MethodDescriptor literal
type MethodData struct {
	Name    string
	Path    string
	Returns bool
	Params  []ParamData
	Result  string // none, value, error or value-error
	Call    string // owner.(*T).M(args...)
}

// ParamData describes one ParamDescriptor literal
type ParamData struct {
	Name  string
	Type  string
	Value string
}

// NewModuleData converts parsed package metadata into template input
func NewModuleData(meta *models.PackageMetadata) (*ModuleData, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}

	im := NewImportManager()
	im.Add(MVCImportPath)

	data := &ModuleData{PackageName: meta.PackageName}
	for _, c := range meta.Components {
		cd := ComponentData{
			Package:      meta.ImportPath,
			Name:         c.Name,
			ExplicitName: strings.TrimSpace(c.ExplicitName),
			Capabilities: c.Capabilities,
			BasePath:     c.BasePath,
		}
		switch c.Kind {
		case models.ComponentController:
			cd.Role = "mvc.RoleController"
		case models.ComponentService:
			cd.Role = "mvc.RoleService"
		default:
			cd.Role = "mvc.RoleNone"
		}

		for _, f := range c.Fields {
			cd.Fields = append(cd.Fields, FieldData{
				Owner:     c.Name,
				Name:      f.Name,
				Type:      f.FullType,
				Qualifier: f.Qualifier,
			})
		}

		for _, m := range c.Methods {
			md, err := methodData(c.Name, m, im)
			if err != nil {
				return nil, err
			}
			cd.Methods = append(cd.Methods, md)
		}
		data.Components = append(data.Components, cd)
	}

	data.Imports = im.Render()
	return data, nil
}

func methodData(owner string, m models.MethodMetadata, im *ImportManager) (MethodData, error) {
	md := MethodData{
		Name:    m.Name,
		Path:    m.Path,
		Returns: m.Returns(),
		Result:  resultKind(m.ReturnKind),
	}

	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		goType, err := argType(p.FullType, im)
		if err != nil {
			return MethodData{}, fmt.Errorf("%s.%s parameter %s: %w", owner, m.Name, p.Name, err)
		}
		args[i] = fmt.Sprintf("mvc.Arg[%s](args, %d)", goType, i)
		md.Params = append(md.Params, ParamData{Name: p.Name, Type: p.FullType, Value: p.Value})
	}
	md.Call = fmt.Sprintf("owner.(*%s).%s(%s)", owner, m.Name, strings.Join(args, ", "))
	return md, nil
}

// argType maps a bindable parameter type to the Go expression used in the
// generated Invoke closure
func argType(fullType string, im *ImportManager) (string, error) {
	switch fullType {
	case mvc.TypeRequest:
		im.Add("net/http")
		return "*http.Request", nil
	case mvc.TypeResponse:
		im.Add("net/http")
		return "http.ResponseWriter", nil
	case mvc.TypeString, mvc.TypeInt:
		return fullType, nil
	default:
		return "", fmt.Errorf("unsupported parameter type %s", fullType)
	}
}

func resultKind(k models.ReturnKind) string {
	switch k {
	case models.ReturnValue:
		return "value"
	case models.ReturnError:
		return "error"
	case models.ReturnValueError:
		return "value-error"
	default:
		return "none"
	}
}
