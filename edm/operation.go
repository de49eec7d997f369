package edm

// OperationKind distinguishes functions from actions.
type OperationKind int

const (
	// OperationFunction has no side effects and is invoked with GET.
	OperationFunction OperationKind = iota
	// OperationAction may have side effects and is invoked with POST.
	OperationAction
)

// String returns the CSDL $Kind name.
func (k OperationKind) String() string {
	if k == OperationAction {
		return "Action"
	}
	return "Function"
}

// Operation is one overload of a function or action. Overloads share a
// qualified name.
type Operation struct {
	Namespace    string
	Name         string
	Kind         OperationKind
	IsBound      bool
	IsComposable bool
	// Parameters are ordered; for a bound operation the first parameter is
	// the binding parameter.
	Parameters    []*Parameter
	ReturnType    *TypeRef
	EntitySetPath string
	Description   string
	Pos           Position
}

// QualifiedName returns Namespace.Name.
func (o *Operation) QualifiedName() string { return qualify(o.Namespace, o.Name) }

// BindingParameter returns the binding parameter of a bound operation.
func (o *Operation) BindingParameter() *Parameter {
	if !o.IsBound || len(o.Parameters) == 0 {
		return nil
	}
	return o.Parameters[0]
}

// NonBindingParameters returns the parameters a caller supplies.
func (o *Operation) NonBindingParameters() []*Parameter {
	if o.IsBound && len(o.Parameters) > 0 {
		return o.Parameters[1:]
	}
	return o.Parameters
}

// Parameter is an operation parameter.
type Parameter struct {
	Name        string
	Type        TypeRef
	Description string
}
