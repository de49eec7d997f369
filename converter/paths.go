package converter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/httputil"
	"github.com/erraggy/edmoas/internal/naming"
	"github.com/erraggy/edmoas/openapi"
)

// Operation id prefixes for operation imports.
const (
	functionImportPrefix = "FunctionImport"
	actionImportPrefix   = "ActionImport"
)

// CreatePaths generates the path items of the service: entity set
// collection, entity and $count paths, singleton paths, navigation property
// paths, bound operation paths and operation import paths.
//
// Container members whose type does not resolve are skipped, so an
// unverified invalid model still converts.
func CreatePaths(ctx *Context) (map[string]*openapi.PathItem, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	ec := ctx.EntityContainer()
	if ec == nil {
		return nil, nil
	}

	b := &pathBuilder{
		ctx:      ctx,
		settings: ctx.Settings(),
		paths:    make(map[string]*openapi.PathItem),
		ids:      make(map[string]int),
	}
	for _, es := range ec.EntitySets {
		if et := ctx.FindEntityType(es.EntityType); et != nil {
			b.entitySet(es, et)
		}
	}
	for _, s := range ec.Singletons {
		if et := ctx.FindEntityType(s.Type); et != nil {
			b.singleton(s, et)
		}
	}
	if b.settings.EnableOperationImportPath {
		for _, imp := range ec.OperationImports {
			b.operationImport(imp)
		}
	}
	if b.settings.DeclarePathParametersOnPathItem {
		for _, item := range b.paths {
			hoistPathParameters(item)
		}
	}
	return b.paths, nil
}

// pathBuilder accumulates the path items of one conversion.
type pathBuilder struct {
	ctx      *Context
	settings *ConvertSettings
	paths    map[string]*openapi.PathItem
	ids      map[string]int
}

// item returns the path item for path, creating it if needed. PathPrefix
// is applied here.
func (b *pathBuilder) item(path string) *openapi.PathItem {
	key := b.settings.PathPrefix + path
	item, ok := b.paths[key]
	if !ok {
		item = &openapi.PathItem{}
		b.paths[key] = item
	}
	return item
}

// operationID joins parts with dots, applies the configured style and
// makes the result unique within the document.
func (b *pathBuilder) operationID(parts ...string) string {
	if !b.settings.EnableOperationID {
		return ""
	}
	id := strings.Join(parts, ".")
	switch b.settings.OperationIDStyle {
	case OperationIDCamel:
		id = naming.ToCamelCase(id)
	case OperationIDSnake:
		id = naming.ToSnakeCase(id)
	}
	n := b.ids[id]
	b.ids[id] = n + 1
	if n > 0 {
		id = fmt.Sprintf("%s-%d", id, n+1)
	}
	return id
}

// operation returns a new operation carrying the path parameters and the
// standard default error response.
func (b *pathBuilder) operation(tag, summary, id string, pathParams []*openapi.Parameter, extra ...*openapi.Parameter) *openapi.Operation {
	op := &openapi.Operation{
		Tags:        []string{tag},
		Summary:     summary,
		OperationID: id,
		Responses:   openapi.Responses{},
	}
	op.Parameters = append(op.Parameters, pathParams...)
	op.Parameters = append(op.Parameters, extra...)
	op.Responses[httputil.StatusDefault] = openapi.RefResponse(ResponseError)
	return op
}

func (b *pathBuilder) entitySet(es *edm.EntitySet, et *edm.EntityType) {
	ctx := b.ctx
	tag := es.Name
	collectionPath := "/" + es.Name

	list := b.operation(tag, "Get entities from "+es.Name,
		b.operationID(es.Name, et.Name, "List"+et.Name), nil, listParameters(ctx, et)...)
	list.Description = es.Description
	list.Responses[httputil.StatusOK] = &openapi.Response{
		Description: "Retrieved entities",
		Content:     openapi.JSONContent(openapi.RefSchema(CollectionResponseName(ctx, et.QualifiedName()))),
	}
	create := b.operation(tag, "Add new entity to "+es.Name,
		b.operationID(es.Name, et.Name, "Create"+et.Name), nil)
	create.RequestBody = &openapi.RequestBody{
		Description: "New entity",
		Required:    true,
		Content:     openapi.JSONContent(ctx.SchemaRef(et.QualifiedName())),
	}
	create.Responses[httputil.StatusCreated] = &openapi.Response{
		Description: "Created entity",
		Content:     openapi.JSONContent(ctx.SchemaRef(et.QualifiedName())),
	}
	item := b.item(collectionPath)
	setOperation(&item.Get, list)
	setOperation(&item.Post, create)

	if b.settings.EnableDollarCountPath {
		b.count(collectionPath, tag, b.operationID(es.Name, "GetCount"), nil)
	}

	segment, keyParams := b.keySegment(et, nil)
	if segment != "" {
		entityPath := collectionPath + segment
		b.entity(entityPath, tag, es.Name, et, keyParams, true)
		if b.settings.EnableNavigationPropertyPath {
			b.navigation(entityPath, tag, es.Name, keyParams, et, map[string]bool{et.QualifiedName(): true})
		}
		if b.settings.EnableOperationPath {
			b.boundOperations(entityPath, tag, es.Name, keyParams, et, false)
		}
	}
	if b.settings.EnableOperationPath {
		b.boundOperations(collectionPath, tag, es.Name, nil, et, true)
	}
}

func (b *pathBuilder) singleton(s *edm.Singleton, et *edm.EntityType) {
	path := "/" + s.Name
	b.entity(path, s.Name, s.Name, et, nil, false)
	if b.settings.EnableNavigationPropertyPath {
		b.navigation(path, s.Name, s.Name, nil, et, map[string]bool{et.QualifiedName(): true})
	}
	if b.settings.EnableOperationPath {
		b.boundOperations(path, s.Name, s.Name, nil, et, false)
	}
}

// entity adds get and update operations, and delete when deletable, for
// a single entity addressed by path.
func (b *pathBuilder) entity(path, tag, idPrefix string, et *edm.EntityType, pathParams []*openapi.Parameter, deletable bool) {
	ctx := b.ctx
	item := b.item(path)

	get := b.operation(tag, "Get "+et.Name, b.operationID(idPrefix, et.Name, "Get"+et.Name),
		pathParams, selectParameter(ctx, et), expandParameter(ctx, et))
	get.Description = et.Description
	get.Responses[httputil.StatusOK] = &openapi.Response{
		Description: "Retrieved entity",
		Content:     openapi.JSONContent(entityResponseSchema(ctx, et)),
	}
	setOperation(&item.Get, get)

	update := b.operation(tag, "Update "+et.Name, b.operationID(idPrefix, et.Name, "Update"+et.Name), pathParams)
	update.RequestBody = &openapi.RequestBody{
		Description: "New property values",
		Required:    true,
		Content:     openapi.JSONContent(ctx.SchemaRef(et.QualifiedName())),
	}
	update.Responses[httputil.StatusNoContent] = &openapi.Response{Description: "Success"}
	setOperation(&item.Patch, update)

	if deletable {
		del := b.operation(tag, "Delete "+et.Name, b.operationID(idPrefix, et.Name, "Delete"+et.Name),
			pathParams, ifMatchParameter())
		del.Responses[httputil.StatusNoContent] = &openapi.Response{Description: "Success"}
		setOperation(&item.Delete, del)
	}
}

// count adds a /$count path below path.
func (b *pathBuilder) count(path, tag, id string, pathParams []*openapi.Parameter) {
	op := b.operation(tag, "Get the number of the resource", id, pathParams,
		openapi.RefParameter(ParameterSearch), openapi.RefParameter(ParameterFilter))
	op.Responses[httputil.StatusOK] = &openapi.Response{
		Description: "The count of the resource",
		Content: map[string]*openapi.MediaType{
			openapi.MediaTypeTextPlain: {Schema: openapi.RefSchema(SchemaODataCount)},
		},
	}
	setOperation(&b.item(path+"/$count").Get, op)
}

// navigation adds the paths of the navigation properties of source below
// path. Contained targets are followed recursively; visited holds the
// types on the current chain so that recursive containment terminates.
func (b *pathBuilder) navigation(path, tag, idPrefix string, pathParams []*openapi.Parameter, source edm.Structured, visited map[string]bool) {
	ctx := b.ctx
	for _, np := range ctx.Model().AllNavigationProperties(source) {
		target := ctx.FindEntityType(np.Type.Name)
		if target == nil {
			continue
		}
		navPath := path + "/" + np.Name
		id := idPrefix + "." + np.Name
		item := b.item(navPath)

		if !np.Type.Collection {
			get := b.operation(tag, "Get "+np.Name+" from "+tag, b.operationID(id, "Get"+np.Name),
				pathParams, selectParameter(ctx, target), expandParameter(ctx, target))
			get.Description = np.Description
			schema := entityResponseSchema(ctx, target)
			if np.Type.Nullable {
				schema = ctx.Nullable(schema)
			}
			get.Responses[httputil.StatusOK] = &openapi.Response{
				Description: "Retrieved navigation property",
				Content:     openapi.JSONContent(schema),
			}
			setOperation(&item.Get, get)
			if np.ContainsTarget {
				update := b.operation(tag, "Update the navigation property "+np.Name+" in "+tag,
					b.operationID(id, "Update"+np.Name), pathParams)
				update.RequestBody = &openapi.RequestBody{
					Description: "New navigation property values",
					Required:    true,
					Content:     openapi.JSONContent(ctx.SchemaRef(target.QualifiedName())),
				}
				update.Responses[httputil.StatusNoContent] = &openapi.Response{Description: "Success"}
				setOperation(&item.Patch, update)
				b.followContainment(navPath, tag, id, pathParams, target, visited)
			}
			continue
		}

		list := b.operation(tag, "Get "+np.Name+" from "+tag, b.operationID(id, "List"+np.Name),
			pathParams, listParameters(ctx, target)...)
		list.Description = np.Description
		list.Responses[httputil.StatusOK] = &openapi.Response{
			Description: "Retrieved navigation property",
			Content:     openapi.JSONContent(openapi.RefSchema(CollectionResponseName(ctx, target.QualifiedName()))),
		}
		setOperation(&item.Get, list)
		if b.settings.EnableDollarCountPath {
			b.count(navPath, tag, b.operationID(id, "GetCount"), pathParams)
		}
		if !np.ContainsTarget {
			continue
		}

		create := b.operation(tag, "Create new navigation property to "+np.Name+" for "+tag,
			b.operationID(id, "Create"+np.Name), pathParams)
		create.RequestBody = &openapi.RequestBody{
			Description: "New navigation property",
			Required:    true,
			Content:     openapi.JSONContent(ctx.SchemaRef(target.QualifiedName())),
		}
		create.Responses[httputil.StatusCreated] = &openapi.Response{
			Description: "Created navigation property",
			Content:     openapi.JSONContent(ctx.SchemaRef(target.QualifiedName())),
		}
		setOperation(&item.Post, create)

		if visited[target.QualifiedName()] {
			continue
		}
		segment, keyParams := b.keySegment(target, pathParams)
		if segment == "" {
			continue
		}
		nested := append(slices.Clone(pathParams), keyParams...)
		b.entity(navPath+segment, tag, id, target, nested, true)
		b.followContainment(navPath+segment, tag, id, nested, target, visited)
	}
}

func (b *pathBuilder) followContainment(path, tag, idPrefix string, pathParams []*openapi.Parameter, target *edm.EntityType, visited map[string]bool) {
	name := target.QualifiedName()
	if visited[name] {
		return
	}
	visited[name] = true
	b.navigation(path, tag, idPrefix, pathParams, target, visited)
	delete(visited, name)
}

// keySegment returns the path segment addressing one entity of et and the
// path parameters it introduces. Parameter names already used by taken
// are avoided. It returns "" when et has no usable key.
func (b *pathBuilder) keySegment(et *edm.EntityType, taken []*openapi.Parameter) (string, []*openapi.Parameter) {
	ctx := b.ctx
	keys := ctx.Model().Keys(et)
	if len(keys) == 0 {
		return "", nil
	}

	used := make(map[string]bool, len(taken))
	for _, p := range taken {
		used[p.Name] = true
	}
	params := make([]*openapi.Parameter, 0, len(keys))
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		name := key.Name
		if b.settings.PrefixEntityTypeNameBeforeKey && len(keys) == 1 {
			name = naming.ToCamelCase(et.Name) + "-id"
		}
		name = uniqueName(name, naming.ToCamelCase(et.Name), used)
		used[name] = true

		ref := key.Type
		ref.Nullable = false
		ref.Collection = false
		params = append(params, &openapi.Parameter{
			Name:        name,
			In:          openapi.ParameterInPath,
			Description: "The unique identifier of " + et.Name,
			Required:    true,
			Schema:      propertySchema(ctx, ref),
		})
		values = append(values, literal(ctx, key.Type, name))
	}

	if len(keys) == 1 {
		if b.settings.EnableKeyAsSegment {
			return "/{" + params[0].Name + "}", params
		}
		return "(" + values[0] + ")", params
	}
	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = key.Name + "=" + values[i]
	}
	return "(" + strings.Join(pairs, ",") + ")", params
}

// boundOperations adds the paths of the operations bound to t (or to a
// collection of t) and to its ancestors.
func (b *pathBuilder) boundOperations(path, tag, idPrefix string, pathParams []*openapi.Parameter, t edm.Structured, collection bool) {
	ctx := b.ctx
	var seen []*edm.Operation
	for _, anc := range ctx.Model().Ancestry(t) {
		for _, op := range ctx.BoundOperations(anc.QualifiedName(), collection) {
			if slices.Contains(seen, op) {
				continue
			}
			seen = append(seen, op)

			name := op.QualifiedName()
			if b.settings.EnableUnqualifiedCall {
				name = op.Name
			}
			segment, opPathParams, query := b.operationSegment(op, name, pathParams)
			params := append(slices.Clone(pathParams), opPathParams...)
			id := b.operationID(idPrefix, t.Structure().Name, op.Name)
			b.invoke(path+"/"+segment, tag, id, op, params, query)
		}
	}
}

func (b *pathBuilder) operationImport(imp *edm.OperationImport) {
	ctx := b.ctx
	for _, op := range ctx.Model().FindOperations(imp.Operation) {
		if op.IsBound || op.Kind != imp.Kind {
			continue
		}
		segment, pathParams, query := b.operationSegment(op, imp.Name, nil)
		path := "/" + segment
		if _, exists := b.paths[b.settings.PathPrefix+path]; exists {
			continue
		}
		prefix := functionImportPrefix
		if op.Kind == edm.OperationAction {
			prefix = actionImportPrefix
		}
		o := b.invoke(path, imp.Name, b.operationID(prefix, imp.Name), op, pathParams, query)
		if imp.Description != "" {
			o.Description = imp.Description
		}
		if imp.Kind == edm.OperationAction {
			// an action import addresses a single action
			return
		}
	}
}

// operationSegment returns the path segment invoking op under name.
// Function parameters of primitive, enum or type definition type become
// path parameters; other parameters are passed as aliased query options.
func (b *pathBuilder) operationSegment(op *edm.Operation, name string, taken []*openapi.Parameter) (string, []*openapi.Parameter, []*openapi.Parameter) {
	if op.Kind == edm.OperationAction {
		return name, nil, nil
	}
	ctx := b.ctx
	used := make(map[string]bool, len(taken))
	for _, p := range taken {
		used[p.Name] = true
	}

	var pathParams, query []*openapi.Parameter
	args := make([]string, 0, len(op.Parameters))
	for _, p := range op.NonBindingParameters() {
		if p.Type.Collection || !isScalar(ctx, p.Type.Name) {
			alias := "@" + p.Name
			query = append(query, &openapi.Parameter{
				Name:        alias,
				In:          openapi.ParameterInQuery,
				Description: describeParameter(p, "The value is JSON."),
				Required:    !p.Type.Nullable,
				Schema:      propertySchema(ctx, p.Type),
			})
			args = append(args, p.Name+"="+alias)
			continue
		}
		pname := uniqueName(p.Name, op.Name, used)
		used[pname] = true
		ref := p.Type
		ref.Nullable = false
		pathParams = append(pathParams, &openapi.Parameter{
			Name:        pname,
			In:          openapi.ParameterInPath,
			Description: describeParameter(p, "Usage: "+p.Name+"="+literal(ctx, p.Type, pname)),
			Required:    true,
			Schema:      propertySchema(ctx, ref),
		})
		args = append(args, p.Name+"="+literal(ctx, p.Type, pname))
	}
	return name + "(" + strings.Join(args, ",") + ")", pathParams, query
}

// invoke adds the operation calling op at path: GET for functions and
// POST for actions.
func (b *pathBuilder) invoke(path, tag, id string, op *edm.Operation, pathParams, query []*openapi.Parameter) *openapi.Operation {
	ctx := b.ctx
	kind := "function"
	if op.Kind == edm.OperationAction {
		kind = "action"
	}
	o := b.operation(tag, "Invoke "+kind+" "+op.Name, id, pathParams, query...)
	o.Description = op.Description
	o.Responses = operationResponses(ctx, op, o.Responses)

	item := b.item(path)
	if op.Kind == edm.OperationAction {
		o.RequestBody = actionBody(ctx, op)
		setOperation(&item.Post, o)
	} else {
		setOperation(&item.Get, o)
	}
	return o
}

// operationResponses adds the success response of op to responses.
func operationResponses(ctx *Context, op *edm.Operation, responses openapi.Responses) openapi.Responses {
	rt := op.ReturnType
	if rt == nil {
		responses["204"] = &openapi.Response{Description: "Success"}
		return responses
	}
	responses["200"] = &openapi.Response{
		Description: "Success",
		Content:     openapi.JSONContent(returnSchema(ctx, *rt)),
	}
	return responses
}

// returnSchema returns the response body schema of an operation result.
// Entity collections use the collection wrapper and structured values are
// returned as themselves; anything else is wrapped in a value property.
func returnSchema(ctx *Context, rt edm.TypeRef) *openapi.Schema {
	t, _ := ctx.FindType(rt.Name)
	if et, ok := t.(*edm.EntityType); ok {
		if rt.Collection {
			return openapi.RefSchema(CollectionResponseName(ctx, et.QualifiedName()))
		}
		s := entityResponseSchema(ctx, et)
		if rt.Nullable {
			s = ctx.Nullable(s)
		}
		return s
	}
	if ct, ok := t.(*edm.ComplexType); ok && !rt.Collection {
		s := ctx.SchemaRef(ct.QualifiedName())
		if rt.Nullable {
			s = ctx.Nullable(s)
		}
		return s
	}
	return &openapi.Schema{
		Type:       openapi.TypeObject,
		Properties: map[string]*openapi.Schema{"value": propertySchema(ctx, rt)},
	}
}

// entityResponseSchema references et, listing its derived types when
// EnableDerivedTypesReferencesForResponses is set.
func entityResponseSchema(ctx *Context, et *edm.EntityType) *openapi.Schema {
	ref := ctx.SchemaRef(et.QualifiedName())
	if !ctx.Settings().EnableDerivedTypesReferencesForResponses {
		return ref
	}
	derived := ctx.DerivedTypes(et)
	if len(derived) == 0 {
		return ref
	}
	s := &openapi.Schema{AnyOf: []*openapi.Schema{ref}}
	for _, d := range derived {
		s.AnyOf = append(s.AnyOf, ctx.SchemaRef(d.QualifiedName()))
	}
	return s
}

// actionBody returns the request body of an action: an object holding the
// non-binding parameters.
func actionBody(ctx *Context, op *edm.Operation) *openapi.RequestBody {
	params := op.NonBindingParameters()
	if len(params) == 0 {
		return nil
	}
	schema := &openapi.Schema{Type: openapi.TypeObject, Properties: make(map[string]*openapi.Schema, len(params))}
	for _, p := range params {
		schema.Properties[p.Name] = describe(propertySchema(ctx, p.Type), p.Description)
	}
	return &openapi.RequestBody{
		Description: "Action parameters",
		Required:    true,
		Content:     openapi.JSONContent(schema),
	}
}

func listParameters(ctx *Context, t edm.Structured) []*openapi.Parameter {
	return []*openapi.Parameter{
		openapi.RefParameter(ParameterTop),
		openapi.RefParameter(ParameterSkip),
		openapi.RefParameter(ParameterSearch),
		openapi.RefParameter(ParameterFilter),
		openapi.RefParameter(ParameterCount),
		orderbyParameter(ctx, t),
		selectParameter(ctx, t),
		expandParameter(ctx, t),
	}
}

func orderbyParameter(ctx *Context, t edm.Structured) *openapi.Parameter {
	var names []any
	for _, p := range ctx.Model().AllProperties(t) {
		names = append(names, p.Name, p.Name+" desc")
	}
	return queryOption("$orderby", "Order items by property values", names)
}

func selectParameter(ctx *Context, t edm.Structured) *openapi.Parameter {
	var names []any
	for _, p := range ctx.Model().AllProperties(t) {
		names = append(names, p.Name)
	}
	return queryOption("$select", "Select properties to be returned", names)
}

func expandParameter(ctx *Context, t edm.Structured) *openapi.Parameter {
	names := []any{"*"}
	for _, np := range ctx.Model().AllNavigationProperties(t) {
		names = append(names, np.Name)
	}
	return queryOption("$expand", "Expand related entities", names)
}

func queryOption(name, description string, values []any) *openapi.Parameter {
	explode := false
	items := &openapi.Schema{Type: openapi.TypeString}
	if len(values) > 0 {
		items.Enum = values
	}
	return &openapi.Parameter{
		Name:        name,
		In:          openapi.ParameterInQuery,
		Description: description,
		Style:       "form",
		Explode:     &explode,
		Schema:      &openapi.Schema{Type: openapi.TypeArray, Items: items},
	}
}

func ifMatchParameter() *openapi.Parameter {
	return &openapi.Parameter{
		Name:        "If-Match",
		In:          openapi.ParameterInHeader,
		Description: "ETag",
		Schema:      &openapi.Schema{Type: openapi.TypeString},
	}
}

func describeParameter(p *edm.Parameter, usage string) string {
	if p.Description == "" {
		return usage
	}
	return p.Description + ". " + usage
}

// literal returns the URL literal of a parameter placeholder: quoted for
// strings and enums.
func literal(ctx *Context, ref edm.TypeRef, name string) string {
	if isQuoted(ctx, ref.Name) {
		return "'{" + name + "}'"
	}
	return "{" + name + "}"
}

func isQuoted(ctx *Context, typeName string) bool {
	if edm.IsPrimitive(typeName) {
		return edm.PrimitiveKind(typeName) == edm.PrimitiveString
	}
	t, ok := ctx.FindType(typeName)
	if !ok {
		return false
	}
	switch t := t.(type) {
	case *edm.EnumType:
		return true
	case *edm.TypeDefinition:
		return isQuoted(ctx, t.UnderlyingType)
	}
	return false
}

// isScalar reports whether values of the type can be written inline in a
// URL.
func isScalar(ctx *Context, typeName string) bool {
	if edm.IsPrimitive(typeName) {
		return true
	}
	t, ok := ctx.FindType(typeName)
	if !ok {
		return false
	}
	k := t.Kind()
	return k == edm.KindEnumType || k == edm.KindTypeDefinition
}

// uniqueName returns name, or name qualified by prefix when it is already
// used.
func uniqueName(name, prefix string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	candidate := prefix + "-" + name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%s%d", prefix, name, i)
	}
	return candidate
}

func setOperation(slot **openapi.Operation, op *openapi.Operation) {
	if *slot == nil {
		*slot = op
	}
}

// hoistPathParameters moves path parameters from the operations of item
// to the path item itself.
func hoistPathParameters(item *openapi.PathItem) {
	for _, op := range []*openapi.Operation{item.Get, item.Put, item.Post, item.Patch, item.Delete} {
		if op == nil {
			continue
		}
		kept := op.Parameters[:0]
		for _, p := range op.Parameters {
			if p.In != openapi.ParameterInPath {
				kept = append(kept, p)
				continue
			}
			if !slices.ContainsFunc(item.Parameters, func(q *openapi.Parameter) bool { return q.Name == p.Name }) {
				item.Parameters = append(item.Parameters, p)
			}
		}
		op.Parameters = kept
	}
}
