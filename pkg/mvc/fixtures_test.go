package mvc

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	webPkg     = "example.com/demo/web"
	servicePkg = "example.com/demo/service"
	greeterID  = servicePkg + ".Greeter"
)

type Greeter interface {
	Greet(name string) string
}

type GreeterImpl struct{}

func (g *GreeterImpl) Greet(name string) string { return "my name is " + name }

type TestController struct {
	Greeter Greeter
	Named   Greeter
}

func (c *TestController) Query(req *http.Request, w http.ResponseWriter, name string) {
	fmt.Fprint(w, c.Greeter.Greet(name))
}

func (c *TestController) Add(w http.ResponseWriter, a, b int) {
	fmt.Fprintf(w, "%d+%d=%d", a, b, a+b)
}

func (c *TestController) Echo(name string) string { return name }

func (c *TestController) Raw() []byte { return []byte("raw bytes") }

func (c *TestController) Fail() error { return errors.New("boom") }

func (c *TestController) Explode() { panic("kaboom") }

func greeterDescriptor() TypeDescriptor {
	return TypeDescriptor{
		Package:      servicePkg,
		Name:         "GreeterImpl",
		Role:         RoleService,
		Capabilities: []string{greeterID},
		New:          func() (any, error) { return &GreeterImpl{}, nil },
	}
}

func controllerDescriptor() TypeDescriptor {
	return TypeDescriptor{
		Package:  webPkg,
		Name:     "TestController",
		Role:     RoleController,
		BasePath: "/test",
		New:      func() (any, error) { return &TestController{}, nil },
		Fields: []FieldDescriptor{
			{
				Name:   "Greeter",
				Type:   greeterID,
				Inject: true,
				Assign: func(owner, value any) error { return Assign(&owner.(*TestController).Greeter, value) },
			},
		},
		Methods: []MethodDescriptor{
			{
				Name: "Query", Path: "/query", Routed: true,
				Params: []ParamDescriptor{
					{Name: "req", Type: TypeRequest},
					{Name: "w", Type: TypeResponse},
					{Name: "name", Type: TypeString, Value: "name"},
				},
				Invoke: func(owner any, args []any) (any, error) {
					owner.(*TestController).Query(Arg[*http.Request](args, 0), Arg[http.ResponseWriter](args, 1), Arg[string](args, 2))
					return nil, nil
				},
			},
			{
				Name: "Add", Path: "//add", Routed: true,
				Params: []ParamDescriptor{
					{Name: "w", Type: TypeResponse},
					{Name: "a", Type: TypeInt, Value: "a"},
					{Name: "b", Type: TypeInt, Value: "b"},
				},
				Invoke: func(owner any, args []any) (any, error) {
					owner.(*TestController).Add(Arg[http.ResponseWriter](args, 0), Arg[int](args, 1), Arg[int](args, 2))
					return nil, nil
				},
			},
			{
				Name: "Echo", Path: "/echo", Routed: true, Returns: true,
				Params: []ParamDescriptor{{Name: "name", Type: TypeString, Value: "name"}},
				Invoke: func(owner any, args []any) (any, error) {
					return owner.(*TestController).Echo(Arg[string](args, 0)), nil
				},
			},
			{
				Name: "Raw", Path: "/raw", Routed: true, Returns: true,
				Invoke: func(owner any, args []any) (any, error) {
					return owner.(*TestController).Raw(), nil
				},
			},
			{
				Name: "Fail", Path: "/fail", Routed: true,
				Invoke: func(owner any, args []any) (any, error) {
					return nil, owner.(*TestController).Fail()
				},
			},
			{
				Name: "Explode", Path: "/explode", Routed: true,
				Invoke: func(owner any, args []any) (any, error) {
					owner.(*TestController).Explode()
					return nil, nil
				},
			},
			{
				Name: "Greeter", Routed: false,
			},
		},
	}
}

func demoDescriptors() []TypeDescriptor {
	return []TypeDescriptor{controllerDescriptor(), greeterDescriptor()}
}

func mustBootstrap(descs ...TypeDescriptor) *Container {
	c, err := Bootstrap(Properties{ScanPackageKey: "example.com/demo"}, MustNewCatalog(descs), WithLogger(DiscardLogger()))
	if err != nil {
		panic(err)
	}
	return c
}
