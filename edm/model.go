package edm

import "strings"

// Model is an entity data model.
type Model struct {
	// Version is the CSDL version (e.g., "4.0", "4.01").
	Version string
	// Schemas are ordered as declared.
	Schemas []*Schema
	// EntityContainer is the container named by $EntityContainer, or nil.
	EntityContainer *EntityContainer
	// SourcePath is the file the model was read from, if any.
	SourcePath string
}

// Schema is a namespace of declarations.
type Schema struct {
	Namespace       string
	Alias           string
	Description     string
	EntityTypes     []*EntityType
	ComplexTypes    []*ComplexType
	EnumTypes       []*EnumType
	TypeDefinitions []*TypeDefinition
	Operations      []*Operation
	Pos             Position
}

// Types returns every type declared in the schema in kind order: entity
// types, complex types, enum types, then type definitions.
func (s *Schema) Types() []Type {
	types := make([]Type, 0, len(s.EntityTypes)+len(s.ComplexTypes)+len(s.EnumTypes)+len(s.TypeDefinitions))
	for _, t := range s.EntityTypes {
		types = append(types, t)
	}
	for _, t := range s.ComplexTypes {
		types = append(types, t)
	}
	for _, t := range s.EnumTypes {
		types = append(types, t)
	}
	for _, t := range s.TypeDefinitions {
		types = append(types, t)
	}
	return types
}

// FindSchema returns the schema with the given namespace or alias.
func (m *Model) FindSchema(namespaceOrAlias string) *Schema {
	for _, s := range m.Schemas {
		if s.Namespace == namespaceOrAlias || (s.Alias != "" && s.Alias == namespaceOrAlias) {
			return s
		}
	}
	return nil
}

// ResolveAlias replaces a schema alias prefix in a qualified name with the
// schema's namespace. Names without a known alias are returned unchanged.
// Example: "self.Person" -> "Trippin.Person" when Trippin has alias "self".
func (m *Model) ResolveAlias(qualified string) string {
	i := strings.LastIndexByte(qualified, '.')
	if i <= 0 {
		return qualified
	}
	prefix := qualified[:i]
	for _, s := range m.Schemas {
		if s.Alias != "" && s.Alias == prefix {
			return s.Namespace + qualified[i:]
		}
	}
	return qualified
}

// FindType returns the type with the given qualified name. Aliases are
// resolved. Primitive names are not types and are never found.
func (m *Model) FindType(qualified string) (Type, bool) {
	name := m.ResolveAlias(qualified)
	ns, local := splitQualified(name)
	for _, s := range m.Schemas {
		if s.Namespace != ns {
			continue
		}
		for _, t := range s.EntityTypes {
			if t.Name == local {
				return t, true
			}
		}
		for _, t := range s.ComplexTypes {
			if t.Name == local {
				return t, true
			}
		}
		for _, t := range s.EnumTypes {
			if t.Name == local {
				return t, true
			}
		}
		for _, t := range s.TypeDefinitions {
			if t.Name == local {
				return t, true
			}
		}
	}
	return nil, false
}

// FindEntityType returns the named entity type or nil.
func (m *Model) FindEntityType(qualified string) *EntityType {
	t, ok := m.FindType(qualified)
	if !ok {
		return nil
	}
	et, _ := t.(*EntityType)
	return et
}

// FindStructuredType returns the named entity or complex type or nil.
func (m *Model) FindStructuredType(qualified string) Structured {
	t, ok := m.FindType(qualified)
	if !ok {
		return nil
	}
	st, _ := t.(Structured)
	return st
}

// FindOperations returns every overload of the named operation in
// declaration order.
func (m *Model) FindOperations(qualified string) []*Operation {
	name := m.ResolveAlias(qualified)
	var ops []*Operation
	for _, s := range m.Schemas {
		for _, op := range s.Operations {
			if op.QualifiedName() == name {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

// BaseType returns the base type of t, or nil when t has none or it does
// not resolve to a structured type.
func (m *Model) BaseType(t Structured) Structured {
	base := t.Structure().BaseType
	if base == "" {
		return nil
	}
	return m.FindStructuredType(base)
}

// Ancestry returns t followed by its base types, nearest first. A base type
// cycle ends the chain at the first repeated type.
func (m *Model) Ancestry(t Structured) []Structured {
	seen := make(map[Structured]bool)
	var chain []Structured
	for cur := t; cur != nil && !seen[cur]; cur = m.BaseType(cur) {
		seen[cur] = true
		chain = append(chain, cur)
	}
	return chain
}

// AllProperties returns the structural properties of t including inherited
// ones, base type properties first.
func (m *Model) AllProperties(t Structured) []*Property {
	chain := m.Ancestry(t)
	var props []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Structure().Properties...)
	}
	return props
}

// AllNavigationProperties returns the navigation properties of t including
// inherited ones, base type properties first.
func (m *Model) AllNavigationProperties(t Structured) []*NavigationProperty {
	chain := m.Ancestry(t)
	var props []*NavigationProperty
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Structure().NavigationProperties...)
	}
	return props
}

// Keys returns the key properties of et, taken from the nearest type in its
// ancestry that declares a key. Key names that do not resolve to a property
// are skipped.
func (m *Model) Keys(et *EntityType) []*Property {
	for _, t := range m.Ancestry(et) {
		e, ok := t.(*EntityType)
		if !ok || len(e.Key) == 0 {
			continue
		}
		all := m.AllProperties(et)
		keys := make([]*Property, 0, len(e.Key))
		for _, name := range e.Key {
			for _, p := range all {
				if p.Name == name {
					keys = append(keys, p)
					break
				}
			}
		}
		return keys
	}
	return nil
}

// IsDerivedFrom reports whether t has base among its proper ancestors.
func (m *Model) IsDerivedFrom(t, base Structured) bool {
	for _, anc := range m.Ancestry(t)[1:] {
		if anc == base {
			return true
		}
	}
	return false
}

// Namespaces returns the declared namespaces in order.
func (m *Model) Namespaces() []string {
	ns := make([]string, 0, len(m.Schemas))
	for _, s := range m.Schemas {
		ns = append(ns, s.Namespace)
	}
	return ns
}

func splitQualified(name string) (namespace, local string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// SplitQualifiedName splits "Namespace.Name" into its parts. A name without
// a dot has an empty namespace.
func SplitQualifiedName(name string) (namespace, local string) {
	return splitQualified(name)
}
