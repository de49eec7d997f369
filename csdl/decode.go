package csdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/oaserrors"
	"go.yaml.in/yaml/v4"
)

const (
	annotationDescription    = "@Core.Description"
	annotationAuthorizations = "@Auth.Authorizations"
	defaultPrimitiveType     = "Edm.String"
	defaultEnumUnderlying    = "Edm.Int32"
)

// decoder turns a yaml.Node tree into an edm.Model. Mapping keys are
// visited in document order.
type decoder struct {
	path       string
	containers []*edm.EntityContainer
}

func decode(data []byte, path string) (*edm.Model, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "malformed document", Cause: err}
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, &oaserrors.ParseError{Path: path, Message: "empty document"}
		}
		doc = doc.Content[0]
	}
	if doc.Kind == 0 {
		return nil, &oaserrors.ParseError{Path: path, Message: "empty document"}
	}

	d := &decoder{path: path}
	return d.model(doc)
}

func (d *decoder) model(node *yaml.Node) (*edm.Model, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "document must be an object")
	}

	model := &edm.Model{}
	var containerName string
	var containerNode *yaml.Node
	err := eachPair(node, func(key, val *yaml.Node) error {
		switch name := key.Value; {
		case name == "$Version":
			v, err := d.str(val, name)
			model.Version = v
			return err
		case name == "$EntityContainer":
			v, err := d.str(val, name)
			containerName, containerNode = v, val
			return err
		case strings.HasPrefix(name, "$"), strings.HasPrefix(name, "@"):
			// $Reference and document annotations are not modelled
			return nil
		default:
			schema, err := d.schema(name, key, val)
			if err != nil {
				return err
			}
			model.Schemas = append(model.Schemas, schema)
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	if model.Version == "" {
		return nil, d.errorf(node, "missing $Version")
	}

	container, err := d.pickContainer(model, containerName, containerNode)
	if err != nil {
		return nil, err
	}
	model.EntityContainer = container
	return model, nil
}

func (d *decoder) pickContainer(model *edm.Model, name string, node *yaml.Node) (*edm.EntityContainer, error) {
	if name == "" {
		switch len(d.containers) {
		case 0:
			return nil, nil
		case 1:
			return d.containers[0], nil
		default:
			return nil, &oaserrors.ReferenceError{
				Kind:    "container",
				Message: fmt.Sprintf("%d entity containers declared; $EntityContainer must name one", len(d.containers)),
			}
		}
	}
	resolved := model.ResolveAlias(name)
	for _, c := range d.containers {
		if c.QualifiedName() == resolved {
			return c, nil
		}
	}
	return nil, &oaserrors.ReferenceError{
		Ref:     name,
		Kind:    "container",
		Message: fmt.Sprintf("no such entity container (line %d)", node.Line),
	}
}

func (d *decoder) schema(namespace string, key, node *yaml.Node) (*edm.Schema, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "schema %s must be an object", namespace)
	}
	schema := &edm.Schema{Namespace: namespace, Pos: pos(key)}
	descriptions := map[string]string{}

	err := eachPair(node, func(k, val *yaml.Node) error {
		name := k.Value
		switch {
		case name == "$Alias":
			v, err := d.str(val, name)
			schema.Alias = v
			return err
		case name == annotationDescription:
			v, err := d.str(val, name)
			schema.Description = v
			return err
		case strings.HasPrefix(name, "$"), strings.HasPrefix(name, "@"):
			return nil
		case strings.HasSuffix(name, annotationDescription):
			v, err := d.str(val, name)
			descriptions[strings.TrimSuffix(name, annotationDescription)] = v
			return err
		case strings.Contains(name, "@"):
			return nil
		case val.Kind == yaml.SequenceNode:
			for _, overload := range val.Content {
				op, err := d.operation(namespace, name, k, overload)
				if err != nil {
					return err
				}
				schema.Operations = append(schema.Operations, op)
			}
			return nil
		default:
			return d.element(schema, name, k, val)
		}
	})
	if err != nil {
		return nil, err
	}
	applySchemaDescriptions(schema, descriptions)
	return schema, nil
}

func (d *decoder) element(schema *edm.Schema, name string, key, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return d.errorf(node, "%s.%s must be an object or an array of overloads", schema.Namespace, name)
	}
	kindNode := lookup(node, "$Kind")
	if kindNode == nil {
		return d.errorf(key, "%s.%s has no $Kind", schema.Namespace, name)
	}

	switch kindNode.Value {
	case "EntityType":
		et := &edm.EntityType{}
		if err := d.entityType(et, schema.Namespace, name, key, node); err != nil {
			return err
		}
		schema.EntityTypes = append(schema.EntityTypes, et)
	case "ComplexType":
		ct := &edm.ComplexType{}
		if err := d.structured(&ct.StructuredType, schema.Namespace, name, key, node, nil); err != nil {
			return err
		}
		schema.ComplexTypes = append(schema.ComplexTypes, ct)
	case "EnumType":
		en, err := d.enumType(schema.Namespace, name, key, node)
		if err != nil {
			return err
		}
		schema.EnumTypes = append(schema.EnumTypes, en)
	case "TypeDefinition":
		td, err := d.typeDefinition(schema.Namespace, name, key, node)
		if err != nil {
			return err
		}
		schema.TypeDefinitions = append(schema.TypeDefinitions, td)
	case "EntityContainer":
		c, err := d.container(schema.Namespace, name, key, node)
		if err != nil {
			return err
		}
		d.containers = append(d.containers, c)
	case "Term":
		// vocabulary terms are not modelled
	case "Function", "Action":
		op, err := d.operation(schema.Namespace, name, key, node)
		if err != nil {
			return err
		}
		schema.Operations = append(schema.Operations, op)
	default:
		return d.errorf(kindNode, "unknown $Kind %q for %s.%s", kindNode.Value, schema.Namespace, name)
	}
	return nil
}

func (d *decoder) entityType(et *edm.EntityType, namespace, name string, key, node *yaml.Node) error {
	return d.structured(&et.StructuredType, namespace, name, key, node, func(k, val *yaml.Node) (bool, error) {
		switch k.Value {
		case "$Key":
			if val.Kind != yaml.SequenceNode {
				return true, d.errorf(val, "$Key must be an array")
			}
			for _, item := range val.Content {
				switch item.Kind {
				case yaml.ScalarNode:
					et.Key = append(et.Key, item.Value)
				case yaml.MappingNode:
					// {"alias": "path/to/property"}: keep the property path
					if len(item.Content) == 2 {
						et.Key = append(et.Key, item.Content[1].Value)
						continue
					}
					return true, d.errorf(item, "key alias must have exactly one member")
				default:
					return true, d.errorf(item, "invalid key entry")
				}
			}
			return true, nil
		case "$HasStream":
			v, err := d.boolean(val, k.Value)
			et.HasStream = v
			return true, err
		}
		return false, nil
	})
}

// structured decodes the members shared by entity and complex types. extra
// handles kind-specific $ keys and reports whether it consumed the key.
func (d *decoder) structured(st *edm.StructuredType, namespace, name string, key, node *yaml.Node,
	extra func(k, val *yaml.Node) (bool, error)) error {
	st.Namespace = namespace
	st.Name = name
	st.Pos = pos(key)
	descriptions := map[string]string{}

	err := eachPair(node, func(k, val *yaml.Node) error {
		member := k.Value
		if extra != nil {
			if handled, err := extra(k, val); handled || err != nil {
				return err
			}
		}
		switch {
		case member == "$BaseType":
			v, err := d.str(val, member)
			st.BaseType = v
			return err
		case member == "$Abstract":
			v, err := d.boolean(val, member)
			st.Abstract = v
			return err
		case member == "$OpenType":
			v, err := d.boolean(val, member)
			st.OpenType = v
			return err
		case member == annotationDescription:
			v, err := d.str(val, member)
			st.Description = v
			return err
		case strings.HasPrefix(member, "$"), strings.HasPrefix(member, "@"):
			return nil
		case strings.HasSuffix(member, annotationDescription):
			v, err := d.str(val, member)
			descriptions[strings.TrimSuffix(member, annotationDescription)] = v
			return err
		case strings.Contains(member, "@"):
			return nil
		}

		if val.Kind != yaml.MappingNode {
			return d.errorf(val, "member %s of %s.%s must be an object", member, namespace, name)
		}
		if kind := lookup(val, "$Kind"); kind != nil && kind.Value == "NavigationProperty" {
			np, err := d.navigationProperty(member, k, val)
			if err != nil {
				return err
			}
			st.NavigationProperties = append(st.NavigationProperties, np)
			return nil
		}
		p, err := d.property(member, k, val)
		if err != nil {
			return err
		}
		st.Properties = append(st.Properties, p)
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range st.Properties {
		if desc, ok := descriptions[p.Name]; ok && p.Description == "" {
			p.Description = desc
		}
	}
	for _, np := range st.NavigationProperties {
		if desc, ok := descriptions[np.Name]; ok && np.Description == "" {
			np.Description = desc
		}
	}
	return nil
}

func (d *decoder) property(name string, key, node *yaml.Node) (*edm.Property, error) {
	p := &edm.Property{Name: name, Pos: pos(key)}
	ref, err := d.typeRef(node, defaultPrimitiveType)
	if err != nil {
		return nil, err
	}
	p.Type = ref
	if dv := lookup(node, "$DefaultValue"); dv != nil {
		var v any
		if err := dv.Decode(&v); err != nil {
			return nil, d.errorf(dv, "invalid $DefaultValue: %v", err)
		}
		p.DefaultValue = v
	}
	if desc := lookup(node, annotationDescription); desc != nil {
		p.Description = desc.Value
	}
	return p, nil
}

func (d *decoder) navigationProperty(name string, key, node *yaml.Node) (*edm.NavigationProperty, error) {
	if lookup(node, "$Type") == nil {
		return nil, d.errorf(key, "navigation property %s has no $Type", name)
	}
	np := &edm.NavigationProperty{Name: name, Pos: pos(key)}
	ref, err := d.typeRef(node, "")
	if err != nil {
		return nil, err
	}
	np.Type = ref
	if v := lookup(node, "$ContainsTarget"); v != nil {
		if np.ContainsTarget, err = d.boolean(v, "$ContainsTarget"); err != nil {
			return nil, err
		}
	}
	if v := lookup(node, "$Partner"); v != nil {
		if np.Partner, err = d.str(v, "$Partner"); err != nil {
			return nil, err
		}
	}
	if desc := lookup(node, annotationDescription); desc != nil {
		np.Description = desc.Value
	}
	return np, nil
}

// typeRef reads $Type, $Collection, $Nullable and the facets of node.
func (d *decoder) typeRef(node *yaml.Node, defaultType string) (edm.TypeRef, error) {
	ref := edm.TypeRef{Name: defaultType}
	var err error
	if v := lookup(node, "$Type"); v != nil {
		if ref.Name, err = d.str(v, "$Type"); err != nil {
			return ref, err
		}
	}
	if v := lookup(node, "$Collection"); v != nil {
		if ref.Collection, err = d.boolean(v, "$Collection"); err != nil {
			return ref, err
		}
	}
	if v := lookup(node, "$Nullable"); v != nil {
		if ref.Nullable, err = d.boolean(v, "$Nullable"); err != nil {
			return ref, err
		}
	}
	if ref.MaxLength, err = d.facet(node, "$MaxLength"); err != nil {
		return ref, err
	}
	if ref.Precision, err = d.facet(node, "$Precision"); err != nil {
		return ref, err
	}
	if ref.Scale, err = d.facet(node, "$Scale"); err != nil {
		return ref, err
	}
	return ref, nil
}

// facet reads an integer facet. Symbolic values such as "max" or
// "variable" leave the facet unset.
func (d *decoder) facet(node *yaml.Node, name string) (*int, error) {
	v := lookup(node, name)
	if v == nil {
		return nil, nil
	}
	if v.Kind != yaml.ScalarNode {
		return nil, d.errorf(v, "%s must be a scalar", name)
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		switch v.Value {
		case "max", "variable", "floating":
			return nil, nil
		}
		return nil, d.errorf(v, "%s must be an integer, got %q", name, v.Value)
	}
	return &n, nil
}

func (d *decoder) enumType(namespace, name string, key, node *yaml.Node) (*edm.EnumType, error) {
	en := &edm.EnumType{Namespace: namespace, Name: name, UnderlyingType: defaultEnumUnderlying, Pos: pos(key)}
	descriptions := map[string]string{}
	err := eachPair(node, func(k, val *yaml.Node) error {
		member := k.Value
		switch {
		case member == "$UnderlyingType":
			v, err := d.str(val, member)
			en.UnderlyingType = v
			return err
		case member == "$IsFlags":
			v, err := d.boolean(val, member)
			en.IsFlags = v
			return err
		case member == annotationDescription:
			v, err := d.str(val, member)
			en.Description = v
			return err
		case strings.HasPrefix(member, "$"), strings.HasPrefix(member, "@"):
			return nil
		case strings.HasSuffix(member, annotationDescription):
			v, err := d.str(val, member)
			descriptions[strings.TrimSuffix(member, annotationDescription)] = v
			return err
		case strings.Contains(member, "@"):
			return nil
		}
		if val.Kind != yaml.ScalarNode {
			return d.errorf(val, "enum member %s.%s must have an integer value", name, member)
		}
		value, err := strconv.ParseInt(val.Value, 10, 64)
		if err != nil {
			return d.errorf(val, "enum member %s.%s must have an integer value, got %q", name, member, val.Value)
		}
		en.Members = append(en.Members, &edm.EnumMember{Name: member, Value: value})
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range en.Members {
		m.Description = descriptions[m.Name]
	}
	return en, nil
}

func (d *decoder) typeDefinition(namespace, name string, key, node *yaml.Node) (*edm.TypeDefinition, error) {
	td := &edm.TypeDefinition{Namespace: namespace, Name: name, Pos: pos(key)}
	underlying := lookup(node, "$UnderlyingType")
	if underlying == nil {
		return nil, d.errorf(key, "type definition %s.%s has no $UnderlyingType", namespace, name)
	}
	var err error
	if td.UnderlyingType, err = d.str(underlying, "$UnderlyingType"); err != nil {
		return nil, err
	}
	if td.MaxLength, err = d.facet(node, "$MaxLength"); err != nil {
		return nil, err
	}
	if td.Precision, err = d.facet(node, "$Precision"); err != nil {
		return nil, err
	}
	if td.Scale, err = d.facet(node, "$Scale"); err != nil {
		return nil, err
	}
	if desc := lookup(node, annotationDescription); desc != nil {
		td.Description = desc.Value
	}
	return td, nil
}

func (d *decoder) operation(namespace, name string, key, node *yaml.Node) (*edm.Operation, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "overload of %s.%s must be an object", namespace, name)
	}
	op := &edm.Operation{Namespace: namespace, Name: name, Pos: pos(node)}
	kind := lookup(node, "$Kind")
	switch {
	case kind == nil:
		return nil, d.errorf(node, "overload of %s.%s has no $Kind", namespace, name)
	case kind.Value == "Function":
		op.Kind = edm.OperationFunction
	case kind.Value == "Action":
		op.Kind = edm.OperationAction
	default:
		return nil, d.errorf(kind, "overload of %s.%s has $Kind %q, want Function or Action", namespace, name, kind.Value)
	}

	var err error
	if v := lookup(node, "$IsBound"); v != nil {
		if op.IsBound, err = d.boolean(v, "$IsBound"); err != nil {
			return nil, err
		}
	}
	if v := lookup(node, "$IsComposable"); v != nil {
		if op.IsComposable, err = d.boolean(v, "$IsComposable"); err != nil {
			return nil, err
		}
	}
	if v := lookup(node, "$EntitySetPath"); v != nil {
		if op.EntitySetPath, err = d.str(v, "$EntitySetPath"); err != nil {
			return nil, err
		}
	}
	if v := lookup(node, "$Parameter"); v != nil {
		if v.Kind != yaml.SequenceNode {
			return nil, d.errorf(v, "$Parameter of %s.%s must be an array", namespace, name)
		}
		for _, pn := range v.Content {
			param, err := d.parameter(pn)
			if err != nil {
				return nil, err
			}
			op.Parameters = append(op.Parameters, param)
		}
	}
	if v := lookup(node, "$ReturnType"); v != nil {
		if v.Kind != yaml.MappingNode {
			return nil, d.errorf(v, "$ReturnType of %s.%s must be an object", namespace, name)
		}
		ref, err := d.typeRef(v, defaultPrimitiveType)
		if err != nil {
			return nil, err
		}
		op.ReturnType = &ref
	}
	if desc := lookup(node, annotationDescription); desc != nil {
		op.Description = desc.Value
	}
	return op, nil
}

func (d *decoder) parameter(node *yaml.Node) (*edm.Parameter, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "parameter must be an object")
	}
	nameNode := lookup(node, "$Name")
	if nameNode == nil {
		return nil, d.errorf(node, "parameter has no $Name")
	}
	ref, err := d.typeRef(node, defaultPrimitiveType)
	if err != nil {
		return nil, err
	}
	param := &edm.Parameter{Name: nameNode.Value, Type: ref}
	if desc := lookup(node, annotationDescription); desc != nil {
		param.Description = desc.Value
	}
	return param, nil
}

func (d *decoder) container(namespace, name string, key, node *yaml.Node) (*edm.EntityContainer, error) {
	c := &edm.EntityContainer{Namespace: namespace, Name: name, Pos: pos(key)}
	descriptions := map[string]string{}

	err := eachPair(node, func(k, val *yaml.Node) error {
		member := k.Value
		switch {
		case member == annotationDescription:
			v, err := d.str(val, member)
			c.Description = v
			return err
		case member == annotationAuthorizations:
			auths, err := d.authorizations(val)
			c.Authorizations = auths
			return err
		case strings.HasPrefix(member, "$"), strings.HasPrefix(member, "@"):
			return nil
		case strings.HasSuffix(member, annotationDescription):
			v, err := d.str(val, member)
			descriptions[strings.TrimSuffix(member, annotationDescription)] = v
			return err
		case strings.Contains(member, "@"):
			return nil
		}
		if val.Kind != yaml.MappingNode {
			return d.errorf(val, "container member %s must be an object", member)
		}
		return d.containerMember(c, member, k, val)
	})
	if err != nil {
		return nil, err
	}

	for _, es := range c.EntitySets {
		if desc, ok := descriptions[es.Name]; ok && es.Description == "" {
			es.Description = desc
		}
	}
	for _, s := range c.Singletons {
		if desc, ok := descriptions[s.Name]; ok && s.Description == "" {
			s.Description = desc
		}
	}
	for _, imp := range c.OperationImports {
		if desc, ok := descriptions[imp.Name]; ok && imp.Description == "" {
			imp.Description = desc
		}
	}
	return c, nil
}

func (d *decoder) containerMember(c *edm.EntityContainer, name string, key, node *yaml.Node) error {
	description := ""
	if desc := lookup(node, annotationDescription); desc != nil {
		description = desc.Value
	}

	if fn, act := lookup(node, "$Function"), lookup(node, "$Action"); fn != nil || act != nil {
		imp := &edm.OperationImport{Name: name, Kind: edm.OperationFunction, Description: description, Pos: pos(key)}
		target := fn
		if act != nil {
			imp.Kind = edm.OperationAction
			target = act
		}
		var err error
		if imp.Operation, err = d.str(target, "operation import target"); err != nil {
			return err
		}
		if v := lookup(node, "$EntitySet"); v != nil {
			if imp.EntitySet, err = d.str(v, "$EntitySet"); err != nil {
				return err
			}
		}
		c.OperationImports = append(c.OperationImports, imp)
		return nil
	}

	typeNode := lookup(node, "$Type")
	if typeNode == nil {
		return d.errorf(key, "container member %s has no $Type", name)
	}
	bindings, err := d.bindings(node)
	if err != nil {
		return err
	}

	if collection := lookup(node, "$Collection"); collection != nil {
		isSet, err := d.boolean(collection, "$Collection")
		if err != nil {
			return err
		}
		if isSet {
			es := &edm.EntitySet{
				Name:                       name,
				EntityType:                 typeNode.Value,
				IncludeInServiceDocument:   true,
				Description:                description,
				NavigationPropertyBindings: bindings,
				Pos:                        pos(key),
			}
			if v := lookup(node, "$IncludeInServiceDocument"); v != nil {
				if es.IncludeInServiceDocument, err = d.boolean(v, "$IncludeInServiceDocument"); err != nil {
					return err
				}
			}
			c.EntitySets = append(c.EntitySets, es)
			return nil
		}
	}

	c.Singletons = append(c.Singletons, &edm.Singleton{
		Name:                       name,
		Type:                       typeNode.Value,
		Description:                description,
		NavigationPropertyBindings: bindings,
		Pos:                        pos(key),
	})
	return nil
}

func (d *decoder) bindings(node *yaml.Node) ([]edm.NavigationPropertyBinding, error) {
	v := lookup(node, "$NavigationPropertyBinding")
	if v == nil {
		return nil, nil
	}
	if v.Kind != yaml.MappingNode {
		return nil, d.errorf(v, "$NavigationPropertyBinding must be an object")
	}
	var bindings []edm.NavigationPropertyBinding
	err := eachPair(v, func(k, target *yaml.Node) error {
		t, err := d.str(target, "binding target")
		bindings = append(bindings, edm.NavigationPropertyBinding{Path: k.Value, Target: t})
		return err
	})
	return bindings, err
}

func (d *decoder) authorizations(node *yaml.Node) ([]*edm.Authorization, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "%s must be an array", annotationAuthorizations)
	}
	auths := make([]*edm.Authorization, 0, len(node.Content))
	for _, rec := range node.Content {
		auth, err := d.authorization(rec)
		if err != nil {
			return nil, err
		}
		auths = append(auths, auth)
	}
	return auths, nil
}

func (d *decoder) authorization(node *yaml.Node) (*edm.Authorization, error) {
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "authorization must be an object")
	}
	typeNode := lookup(node, "@type")
	if typeNode == nil {
		typeNode = lookup(node, "@odata.type")
	}
	if typeNode == nil {
		return nil, d.errorf(node, "authorization has no @type")
	}
	typeName := typeNode.Value
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		typeName = typeName[i+1:]
	}
	typeName = strings.TrimPrefix(typeName, "#")
	kind, ok := edm.ParseAuthorizationKind(typeName)
	if !ok {
		return nil, d.errorf(typeNode, "unknown authorization type %q", typeNode.Value)
	}

	auth := &edm.Authorization{Kind: kind}
	err := eachPair(node, func(k, val *yaml.Node) error {
		var err error
		switch k.Value {
		case "Name":
			auth.Name, err = d.str(val, k.Value)
		case "Description":
			auth.Description, err = d.str(val, k.Value)
		case "AuthorizationUrl":
			auth.AuthorizationURL, err = d.str(val, k.Value)
		case "TokenUrl":
			auth.TokenURL, err = d.str(val, k.Value)
		case "RefreshUrl":
			auth.RefreshURL, err = d.str(val, k.Value)
		case "Scheme":
			auth.Scheme, err = d.str(val, k.Value)
		case "BearerFormat":
			auth.BearerFormat, err = d.str(val, k.Value)
		case "KeyName":
			auth.KeyName, err = d.str(val, k.Value)
		case "Location":
			auth.Location, err = d.str(val, k.Value)
		case "IssuerUrl":
			auth.IssuerURL, err = d.str(val, k.Value)
		case "Scopes":
			auth.Scopes, err = d.scopes(val)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}

func (d *decoder) scopes(node *yaml.Node) ([]edm.Scope, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "Scopes must be an array")
	}
	scopes := make([]edm.Scope, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, d.errorf(item, "scope must be an object")
		}
		var s edm.Scope
		if v := lookup(item, "Scope"); v != nil {
			s.Scope = v.Value
		}
		if v := lookup(item, "Description"); v != nil {
			s.Description = v.Value
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

func applySchemaDescriptions(schema *edm.Schema, descriptions map[string]string) {
	if len(descriptions) == 0 {
		return
	}
	for _, t := range schema.EntityTypes {
		if desc, ok := descriptions[t.Name]; ok && t.Description == "" {
			t.Description = desc
		}
	}
	for _, t := range schema.ComplexTypes {
		if desc, ok := descriptions[t.Name]; ok && t.Description == "" {
			t.Description = desc
		}
	}
	for _, t := range schema.EnumTypes {
		if desc, ok := descriptions[t.Name]; ok && t.Description == "" {
			t.Description = desc
		}
	}
	for _, t := range schema.TypeDefinitions {
		if desc, ok := descriptions[t.Name]; ok && t.Description == "" {
			t.Description = desc
		}
	}
	for _, op := range schema.Operations {
		if desc, ok := descriptions[op.Name]; ok && op.Description == "" {
			op.Description = desc
		}
	}
}

func (d *decoder) str(node *yaml.Node, what string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", d.errorf(node, "%s must be a string", what)
	}
	return node.Value, nil
}

func (d *decoder) boolean(node *yaml.Node, what string) (bool, error) {
	if node.Kind == yaml.ScalarNode {
		switch node.Value {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, d.errorf(node, "%s must be a boolean", what)
}

func (d *decoder) errorf(node *yaml.Node, format string, args ...any) *oaserrors.ParseError {
	return &oaserrors.ParseError{
		Path:    d.path,
		Line:    node.Line,
		Column:  node.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// eachPair calls fn for each key/value pair of a mapping node in order.
func eachPair(node *yaml.Node, fn func(key, val *yaml.Node) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i], node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// lookup returns the value node for key in a mapping node, or nil.
func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func pos(node *yaml.Node) edm.Position {
	return edm.Position{Line: node.Line, Column: node.Column}
}
