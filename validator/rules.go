package validator

import (
	"fmt"
	"strings"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/issues"
	"github.com/erraggy/edmoas/internal/stringutil"
)

// Issue codes. They are part of the error string and stay stable.
const (
	CodeInvalidName                    = "InvalidName"
	CodeInvalidNamespace               = "InvalidNamespace"
	CodeReservedNamespace              = "ReservedNamespace"
	CodeDuplicateName                  = "DuplicateName"
	CodeDuplicateProperty              = "DuplicateProperty"
	CodeDuplicateEnumMember            = "DuplicateEnumMember"
	CodeUnresolvedType                 = "UnresolvedType"
	CodeBaseTypeCycle                  = "BaseTypeCycle"
	CodeBaseTypeKindMismatch           = "BaseTypeKindMismatch"
	CodeMissingKey                     = "MissingKey"
	CodeInvalidKey                     = "InvalidKey"
	CodeNavigationTargetNotEntity      = "NavigationTargetNotEntity"
	CodeUnresolvedPartner              = "UnresolvedPartner"
	CodeInvalidUnderlyingType          = "InvalidUnderlyingType"
	CodeBoundOperationWithoutParameter = "BoundOperationWithoutParameter"
	CodeContainerTypeMismatch          = "ContainerTypeMismatch"
	CodeUnresolvedNavigationBinding    = "UnresolvedNavigationBinding"
	CodeUnresolvedOperationImport      = "UnresolvedOperationImport"
	CodeInvalidAuthorization           = "InvalidAuthorization"
	CodeReservedName                   = "ReservedName"

	CodeEntityTypeNotExposed   = "EntityTypeNotExposed"
	CodeCollectionDefaultValue = "CollectionDefaultValue"
)

// reservedNamespaces cannot be declared by a model: "Edm" holds the
// primitive types and "odata" names the generated error and count schemas.
var reservedNamespaces = map[string]bool{
	"Edm":   true,
	"odata": true,
}

type checker struct {
	model    *edm.Model
	errors   []ValidationError
	warnings []ValidationError
}

func newChecker(model *edm.Model) *checker {
	return &checker{
		model:    model,
		errors:   make([]ValidationError, 0, 10),
		warnings: make([]ValidationError, 0, 10),
	}
}

func (c *checker) addError(code, path string, pos edm.Position, format string, args ...any) {
	c.errors = append(c.errors, ValidationError{
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
		Line:     pos.Line,
		Column:   pos.Column,
		File:     c.fileFor(pos),
	})
}

func (c *checker) addWarning(code, path string, pos edm.Position, format string, args ...any) {
	c.warnings = append(c.warnings, ValidationError{
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
		Line:     pos.Line,
		Column:   pos.Column,
		File:     c.fileFor(pos),
	})
}

func (c *checker) fileFor(pos edm.Position) string {
	if pos.Line == 0 {
		return ""
	}
	return c.model.SourcePath
}

func (c *checker) run() {
	c.checkSchemas()
	for _, s := range c.model.Schemas {
		for _, et := range s.EntityTypes {
			c.checkStructured(et)
			c.checkEntityKey(et)
		}
		for _, ct := range s.ComplexTypes {
			c.checkStructured(ct)
		}
		for _, en := range s.EnumTypes {
			c.checkEnum(en)
		}
		for _, td := range s.TypeDefinitions {
			c.checkTypeDefinition(td)
		}
		for _, op := range s.Operations {
			c.checkOperation(op)
		}
	}
	if ec := c.model.EntityContainer; ec != nil {
		c.checkContainer(ec)
	}
	c.checkExposure()
}

func (c *checker) checkSchemas() {
	namespaces := make(map[string]bool)
	aliases := make(map[string]bool)
	for _, s := range c.model.Schemas {
		switch {
		case !stringutil.IsNamespace(s.Namespace):
			c.addError(CodeInvalidNamespace, s.Namespace, s.Pos, "namespace %q is not a valid namespace", s.Namespace)
		case reservedNamespaces[s.Namespace]:
			c.addError(CodeReservedNamespace, s.Namespace, s.Pos, "namespace %q is reserved", s.Namespace)
		case namespaces[s.Namespace]:
			c.addError(CodeDuplicateName, s.Namespace, s.Pos, "namespace %q is declared more than once", s.Namespace)
		}
		namespaces[s.Namespace] = true

		if s.Alias != "" {
			switch {
			case !stringutil.IsSimpleIdentifier(s.Alias):
				c.addError(CodeInvalidName, s.Namespace, s.Pos, "alias %q is not a simple identifier", s.Alias)
			case reservedNamespaces[s.Alias]:
				c.addError(CodeReservedNamespace, s.Namespace, s.Pos, "alias %q is reserved", s.Alias)
			case aliases[s.Alias]:
				c.addError(CodeDuplicateName, s.Namespace, s.Pos, "alias %q is declared more than once", s.Alias)
			}
			aliases[s.Alias] = true
		}

		// Types and operations share one name scope per namespace.
		names := make(map[string]bool)
		declare := func(name string, pos edm.Position) {
			qualified := s.Namespace + "." + name
			if !stringutil.IsSimpleIdentifier(name) {
				c.addError(CodeInvalidName, qualified, pos, "%q is not a simple identifier", name)
			}
			if names[name] {
				c.addError(CodeDuplicateName, qualified, pos, "%s is declared more than once", qualified)
			}
			names[name] = true
		}
		typePos := make(map[string]edm.Position)
		for _, t := range s.Types() {
			_, local := edm.SplitQualifiedName(t.QualifiedName())
			declare(local, t.Position())
			typePos[local] = t.Position()
		}
		// Every entity type owns the generated <Name>CollectionResponse schema.
		for _, et := range s.EntityTypes {
			wrapper := et.Name + edm.CollectionResponseSuffix
			if pos, taken := typePos[wrapper]; taken {
				c.addError(CodeReservedName, s.Namespace+"."+wrapper, pos,
					"%s.%s collides with the collection response schema of entity type %s", s.Namespace, wrapper, et.QualifiedName())
			}
		}
		seenOps := make(map[string]bool)
		for _, op := range s.Operations {
			// Overloads share a name.
			if seenOps[op.Name] {
				continue
			}
			seenOps[op.Name] = true
			declare(op.Name, op.Pos)
		}
	}
}

// resolveTypeRef reports an unresolved type reference. It returns the
// resolved type, or nil for primitives and unresolved names.
func (c *checker) resolveTypeRef(ref edm.TypeRef, path string, pos edm.Position) edm.Type {
	if ref.Name == "" {
		c.addError(CodeUnresolvedType, path, pos, "type is missing")
		return nil
	}
	if edm.IsPrimitive(ref.Name) {
		return nil
	}
	t, ok := c.model.FindType(ref.Name)
	if !ok {
		c.addError(CodeUnresolvedType, path, pos, "type %s is not declared", ref.Name)
		return nil
	}
	return t
}

func (c *checker) checkStructured(t edm.Structured) {
	if c.checkBaseType(t) {
		// Inherited members cannot be enumerated on a cyclic chain.
		c.checkMembers(t, false)
		return
	}
	c.checkMembers(t, true)
}

// checkBaseType validates the base type reference and reports whether the
// type's base chain is cyclic.
func (c *checker) checkBaseType(t edm.Structured) bool {
	st := t.Structure()
	name := st.QualifiedName()
	if st.BaseType == "" {
		return false
	}

	base, ok := c.model.FindType(st.BaseType)
	if !ok {
		c.addError(CodeUnresolvedType, name, st.Pos, "base type %s is not declared", st.BaseType)
		return false
	}
	if base.Kind() != t.Kind() {
		c.addError(CodeBaseTypeKindMismatch, name, st.Pos, "base type %s is a %s, not a %s", st.BaseType, base.Kind(), t.Kind())
		return false
	}

	seen := map[edm.Structured]bool{t: true}
	for cur := c.model.BaseType(t); cur != nil; cur = c.model.BaseType(cur) {
		if seen[cur] {
			if cur == t {
				c.addError(CodeBaseTypeCycle, name, st.Pos, "base type chain of %s is cyclic", name)
			}
			return true
		}
		seen[cur] = true
	}
	return false
}

func (c *checker) checkMembers(t edm.Structured, inherited bool) {
	st := t.Structure()
	owner := st.QualifiedName()

	members := make(map[string]bool)
	if inherited {
		for _, anc := range c.model.Ancestry(t)[1:] {
			for _, p := range anc.Structure().Properties {
				members[p.Name] = true
			}
			for _, np := range anc.Structure().NavigationProperties {
				members[np.Name] = true
			}
		}
	}
	declare := func(name string, pos edm.Position) {
		path := issues.TargetPath(owner, name)
		if !stringutil.IsSimpleIdentifier(name) {
			c.addError(CodeInvalidName, path, pos, "property name %q is not a simple identifier", name)
		}
		if members[name] {
			c.addError(CodeDuplicateProperty, path, pos, "property %s is declared more than once on %s or its base types", name, owner)
		}
		members[name] = true
	}

	for _, p := range st.Properties {
		declare(p.Name, p.Pos)
		path := issues.TargetPath(owner, p.Name)
		pt := c.resolveTypeRef(p.Type, path, p.Pos)
		if pt != nil && pt.Kind() == edm.KindEntityType {
			c.addError(CodeUnresolvedType, path, p.Pos, "structural property cannot have entity type %s", p.Type.Name)
		}
		if p.Type.Collection && p.DefaultValue != nil {
			c.addWarning(CodeCollectionDefaultValue, path, p.Pos, "default value on collection property %s is ignored", p.Name)
		}
	}

	for _, np := range st.NavigationProperties {
		declare(np.Name, np.Pos)
		path := issues.TargetPath(owner, np.Name)
		target := c.resolveTypeRef(np.Type, path, np.Pos)
		if target == nil {
			if edm.IsPrimitive(np.Type.Name) {
				c.addError(CodeNavigationTargetNotEntity, path, np.Pos, "navigation property target %s is not an entity type", np.Type.Name)
			}
			continue
		}
		et, ok := target.(*edm.EntityType)
		if !ok {
			c.addError(CodeNavigationTargetNotEntity, path, np.Pos, "navigation property target %s is not an entity type", np.Type.Name)
			continue
		}
		if np.Partner != "" && c.findNavigationProperty(et, np.Partner) == nil {
			c.addError(CodeUnresolvedPartner, path, np.Pos, "partner %s is not a navigation property of %s", np.Partner, et.QualifiedName())
		}
	}
}

func (c *checker) findNavigationProperty(t edm.Structured, name string) *edm.NavigationProperty {
	for _, np := range c.model.AllNavigationProperties(t) {
		if np.Name == name {
			return np
		}
	}
	return nil
}

func (c *checker) checkEntityKey(et *edm.EntityType) {
	name := et.QualifiedName()
	chain := c.model.Ancestry(et)

	var declaring *edm.EntityType
	for _, anc := range chain {
		if e, ok := anc.(*edm.EntityType); ok && len(e.Key) > 0 {
			declaring = e
			break
		}
	}

	if declaring == nil {
		if !et.Abstract {
			c.addError(CodeMissingKey, name, et.Pos, "entity type %s has no key", name)
		}
		return
	}
	if declaring != et {
		return
	}
	for _, anc := range chain[1:] {
		if e, ok := anc.(*edm.EntityType); ok && len(e.Key) > 0 {
			c.addError(CodeInvalidKey, name, et.Pos, "entity type %s redeclares the key of base type %s", name, e.QualifiedName())
			return
		}
	}

	all := c.model.AllProperties(et)
	seen := make(map[string]bool)
	for _, keyName := range et.Key {
		path := issues.TargetPath(name, keyName)
		if seen[keyName] {
			c.addError(CodeInvalidKey, path, et.Pos, "key property %s is listed more than once", keyName)
			continue
		}
		seen[keyName] = true

		var prop *edm.Property
		for _, p := range all {
			if p.Name == keyName {
				prop = p
				break
			}
		}
		if prop == nil {
			c.addError(CodeInvalidKey, path, et.Pos, "key property %s is not a property of %s", keyName, name)
			continue
		}
		if prop.Type.Collection {
			c.addError(CodeInvalidKey, path, prop.Pos, "key property %s cannot be a collection", keyName)
		}
		if prop.Type.Nullable {
			c.addError(CodeInvalidKey, path, prop.Pos, "key property %s must not be nullable", keyName)
		}
		if !c.isKeyType(prop.Type.Name) {
			c.addError(CodeInvalidKey, path, prop.Pos, "key property %s has type %s, which cannot be a key", keyName, prop.Type.Name)
		}
	}
}

// isKeyType reports whether typeName may type a key property: a primitive
// other than stream, geo or untyped, an enum, or a type definition.
func (c *checker) isKeyType(typeName string) bool {
	switch edm.PrimitiveKind(typeName) {
	case edm.PrimitiveNone:
		t, ok := c.model.FindType(typeName)
		if !ok {
			// reported as an unresolved property type
			return true
		}
		return t.Kind() == edm.KindEnumType || t.Kind() == edm.KindTypeDefinition
	case edm.PrimitiveStream, edm.PrimitiveGeography, edm.PrimitiveGeometry, edm.PrimitiveUntyped:
		return false
	default:
		return true
	}
}

func (c *checker) checkEnum(en *edm.EnumType) {
	name := en.QualifiedName()
	switch en.UnderlyingType {
	case "", "Edm.Byte", "Edm.SByte", "Edm.Int16", "Edm.Int32", "Edm.Int64":
	default:
		c.addError(CodeInvalidUnderlyingType, name, en.Pos, "enum underlying type %s is not an integral type", en.UnderlyingType)
	}

	seen := make(map[string]bool)
	for _, m := range en.Members {
		path := issues.TargetPath(name, m.Name)
		if !stringutil.IsSimpleIdentifier(m.Name) {
			c.addError(CodeInvalidName, path, en.Pos, "enum member name %q is not a simple identifier", m.Name)
		}
		if seen[m.Name] {
			c.addError(CodeDuplicateEnumMember, path, en.Pos, "enum member %s is declared more than once", m.Name)
		}
		seen[m.Name] = true
	}
}

func (c *checker) checkTypeDefinition(td *edm.TypeDefinition) {
	if !edm.IsPrimitive(td.UnderlyingType) {
		c.addError(CodeInvalidUnderlyingType, td.QualifiedName(), td.Pos,
			"type definition underlying type %s is not a primitive type", td.UnderlyingType)
	}
}

func (c *checker) checkOperation(op *edm.Operation) {
	name := op.QualifiedName()
	if op.IsBound && len(op.Parameters) == 0 {
		c.addError(CodeBoundOperationWithoutParameter, name, op.Pos, "bound %s %s has no binding parameter", strings.ToLower(op.Kind.String()), name)
	}

	seen := make(map[string]bool)
	for _, p := range op.Parameters {
		path := issues.TargetPath(name, p.Name)
		if !stringutil.IsSimpleIdentifier(p.Name) {
			c.addError(CodeInvalidName, path, op.Pos, "parameter name %q is not a simple identifier", p.Name)
		}
		if seen[p.Name] {
			c.addError(CodeDuplicateName, path, op.Pos, "parameter %s is declared more than once", p.Name)
		}
		seen[p.Name] = true
		c.resolveTypeRef(p.Type, path, op.Pos)
	}
	if op.ReturnType != nil {
		c.resolveTypeRef(*op.ReturnType, issues.TargetPath(name, "$ReturnType"), op.Pos)
	}
	if op.Kind == edm.OperationFunction && op.ReturnType == nil {
		c.addError(CodeUnresolvedType, name, op.Pos, "function %s has no return type", name)
	}
}

func (c *checker) checkContainer(ec *edm.EntityContainer) {
	cname := ec.QualifiedName()
	if !stringutil.IsSimpleIdentifier(ec.Name) {
		c.addError(CodeInvalidName, cname, ec.Pos, "%q is not a simple identifier", ec.Name)
	}

	members := make(map[string]bool)
	declare := func(name string, pos edm.Position) string {
		path := issues.TargetPath(cname, name)
		if !stringutil.IsSimpleIdentifier(name) {
			c.addError(CodeInvalidName, path, pos, "%q is not a simple identifier", name)
		}
		if members[name] {
			c.addError(CodeDuplicateName, path, pos, "container member %s is declared more than once", name)
		}
		members[name] = true
		return path
	}

	for _, es := range ec.EntitySets {
		path := declare(es.Name, es.Pos)
		et := c.containerEntityType(es.EntityType, path, es.Pos)
		c.checkBindings(et, es.NavigationPropertyBindings, path, es.Pos)
	}
	for _, s := range ec.Singletons {
		path := declare(s.Name, s.Pos)
		et := c.containerEntityType(s.Type, path, s.Pos)
		c.checkBindings(et, s.NavigationPropertyBindings, path, s.Pos)
	}
	for _, imp := range ec.OperationImports {
		path := declare(imp.Name, imp.Pos)
		c.checkOperationImport(ec, imp, path)
	}
	c.checkAuthorizations(ec)
}

func (c *checker) containerEntityType(typeName, path string, pos edm.Position) *edm.EntityType {
	t, ok := c.model.FindType(typeName)
	if !ok {
		c.addError(CodeUnresolvedType, path, pos, "type %s is not declared", typeName)
		return nil
	}
	et, ok := t.(*edm.EntityType)
	if !ok {
		c.addError(CodeContainerTypeMismatch, path, pos, "type %s is not an entity type", typeName)
		return nil
	}
	return et
}

func (c *checker) checkBindings(et *edm.EntityType, bindings []edm.NavigationPropertyBinding, path string, pos edm.Position) {
	for _, b := range bindings {
		bpath := issues.TargetPath(path, b.Path)
		if et != nil && !c.bindingPathResolves(et, b.Path) {
			c.addError(CodeUnresolvedNavigationBinding, bpath, pos, "binding path %s does not end in a navigation property", b.Path)
		}
		if !c.bindingTargetResolves(b.Target) {
			c.addError(CodeUnresolvedNavigationBinding, bpath, pos, "binding target %s is not an entity set or singleton", b.Target)
		}
	}
}

// bindingPathResolves walks a binding path of the form
// "[Type/]Complex/.../NavProp", allowing type casts and complex segments.
func (c *checker) bindingPathResolves(et *edm.EntityType, path string) bool {
	var cur edm.Structured = et
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.Contains(seg, ".") {
			cast := c.model.FindStructuredType(seg)
			if cast == nil {
				return false
			}
			cur = cast
			continue
		}
		last := i == len(segments)-1
		if np := c.findNavigationProperty(cur, seg); np != nil {
			if last {
				return true
			}
			next := c.model.FindStructuredType(np.Type.Name)
			if next == nil {
				return false
			}
			cur = next
			continue
		}
		if last {
			return false
		}
		var next edm.Structured
		for _, p := range c.model.AllProperties(cur) {
			if p.Name == seg {
				next = c.model.FindStructuredType(p.Type.Name)
				break
			}
		}
		if next == nil {
			return false
		}
		cur = next
	}
	return false
}

// bindingTargetResolves accepts "Set", "Container/Set" and
// "Namespace.Container/Set" forms.
func (c *checker) bindingTargetResolves(target string) bool {
	ec := c.model.EntityContainer
	if ec == nil {
		return false
	}
	name := target
	if i := strings.LastIndexByte(target, '/'); i >= 0 {
		container := target[:i]
		if container != ec.Name && c.model.ResolveAlias(container) != ec.QualifiedName() {
			return false
		}
		name = target[i+1:]
	}
	return ec.FindEntitySet(name) != nil || ec.FindSingleton(name) != nil
}

func (c *checker) checkOperationImport(ec *edm.EntityContainer, imp *edm.OperationImport, path string) {
	var unbound *edm.Operation
	for _, op := range c.model.FindOperations(imp.Operation) {
		if !op.IsBound {
			unbound = op
			break
		}
	}
	if unbound == nil {
		c.addError(CodeUnresolvedOperationImport, path, imp.Pos, "%s is not an unbound operation", imp.Operation)
		return
	}
	if unbound.Kind != imp.Kind {
		c.addError(CodeUnresolvedOperationImport, path, imp.Pos, "%s import references %s, which is a %s", imp.Kind, imp.Operation, unbound.Kind)
	}
	if imp.EntitySet != "" && ec.FindEntitySet(imp.EntitySet) == nil {
		c.addError(CodeUnresolvedOperationImport, path, imp.Pos, "entity set %s is not declared", imp.EntitySet)
	}
}

func (c *checker) checkAuthorizations(ec *edm.EntityContainer) {
	seen := make(map[string]bool)
	for _, a := range ec.Authorizations {
		path := issues.TargetPath(ec.QualifiedName(), "@Auth.Authorizations", a.Name)
		if a.Name == "" {
			c.addError(CodeInvalidAuthorization, path, ec.Pos, "authorization has no name")
			continue
		}
		if seen[a.Name] {
			c.addError(CodeInvalidAuthorization, path, ec.Pos, "authorization %s is declared more than once", a.Name)
		}
		seen[a.Name] = true

		var missing []string
		switch a.Kind {
		case edm.AuthOAuth2Implicit:
			missing = requireFields(map[string]string{"AuthorizationUrl": a.AuthorizationURL})
		case edm.AuthOAuth2Password, edm.AuthOAuth2ClientCredentials:
			missing = requireFields(map[string]string{"TokenUrl": a.TokenURL})
		case edm.AuthOAuth2AuthCode:
			missing = requireFields(map[string]string{"AuthorizationUrl": a.AuthorizationURL, "TokenUrl": a.TokenURL})
		case edm.AuthHTTP:
			missing = requireFields(map[string]string{"Scheme": a.Scheme})
		case edm.AuthAPIKey:
			missing = requireFields(map[string]string{"KeyName": a.KeyName, "Location": a.Location})
			if a.Location != "" && a.Location != "Header" && a.Location != "QueryOption" && a.Location != "Cookie" {
				c.addError(CodeInvalidAuthorization, path, ec.Pos, "api key location %s is not Header, QueryOption or Cookie", a.Location)
			}
		case edm.AuthOpenIDConnect:
			missing = requireFields(map[string]string{"IssuerUrl": a.IssuerURL})
		}
		if len(missing) > 0 {
			c.addError(CodeInvalidAuthorization, path, ec.Pos, "%s authorization %s is missing %s", a.Kind, a.Name, strings.Join(missing, ", "))
		}
	}
}

func requireFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"AuthorizationUrl", "TokenUrl", "Scheme", "KeyName", "Location", "IssuerUrl"} {
		if v, ok := fields[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// checkExposure warns about concrete entity types that no entity set,
// singleton or containment navigation property can reach.
func (c *checker) checkExposure() {
	ec := c.model.EntityContainer
	if ec == nil {
		return
	}
	exposed := make(map[edm.Structured]bool)
	for _, es := range ec.EntitySets {
		if et := c.model.FindEntityType(es.EntityType); et != nil {
			exposed[et] = true
		}
	}
	for _, s := range ec.Singletons {
		if et := c.model.FindEntityType(s.Type); et != nil {
			exposed[et] = true
		}
	}
	for _, s := range c.model.Schemas {
		for _, et := range s.EntityTypes {
			for _, np := range et.NavigationProperties {
				if np.ContainsTarget {
					if target := c.model.FindEntityType(np.Type.Name); target != nil {
						exposed[target] = true
					}
				}
			}
		}
	}

	for _, s := range c.model.Schemas {
		for _, et := range s.EntityTypes {
			if et.Abstract || exposed[et] {
				continue
			}
			reachable := false
			for _, anc := range c.model.Ancestry(et)[1:] {
				if exposed[anc] {
					reachable = true
					break
				}
			}
			if !reachable {
				c.addWarning(CodeEntityTypeNotExposed, et.QualifiedName(), et.Pos,
					"entity type %s is not exposed by any entity set or singleton", et.QualifiedName())
			}
		}
	}
}
