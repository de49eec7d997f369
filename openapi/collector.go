package openapi

import (
	"fmt"

	"github.com/erraggy/edmoas/internal/maputil"
)

// RefCollector traverses a document to collect all $ref values.
// It tracks where references appear and categorizes them by type.
// Security requirement names are recorded as security scheme references.
type RefCollector struct {
	// Refs maps reference paths to their locations in the document.
	// Key: reference path (e.g., "#/components/schemas/Trippin.Person")
	// Value: list of dotted paths where the reference appears
	Refs map[string][]string

	// RefsByType categorizes references by their target type.
	RefsByType map[RefType]map[string]bool

	visited map[*Schema]bool
}

// NewRefCollector creates a new RefCollector instance.
func NewRefCollector() *RefCollector {
	return &RefCollector{
		Refs:       make(map[string][]string),
		RefsByType: make(map[RefType]map[string]bool),
		visited:    make(map[*Schema]bool),
	}
}

func (c *RefCollector) addRef(ref, location string) {
	if ref == "" {
		return
	}
	c.Refs[ref] = append(c.Refs[ref], location)

	refType, _ := ParseRef(ref)
	if c.RefsByType[refType] == nil {
		c.RefsByType[refType] = make(map[string]bool)
	}
	c.RefsByType[refType][ref] = true
}

// Collect records every reference in doc.
func (c *RefCollector) Collect(doc *Document) {
	if doc == nil {
		return
	}

	for pathKey, item := range doc.Paths {
		c.collectPathItem(item, "paths."+pathKey)
	}
	c.collectSecurity(doc.Security, "security")

	comp := doc.Components
	if comp == nil {
		return
	}
	for name, s := range comp.Schemas {
		c.collectSchema(s, "components.schemas."+name)
	}
	for name, p := range comp.Parameters {
		c.collectParameter(p, "components.parameters."+name)
	}
	for name, r := range comp.Responses {
		c.collectResponse(r, "components.responses."+name)
	}
	for name, rb := range comp.RequestBodies {
		c.collectRequestBody(rb, "components.requestBodies."+name)
	}
	for name, h := range comp.Headers {
		c.collectHeader(h, "components.headers."+name)
	}
	for name, ss := range comp.SecuritySchemes {
		if ss != nil {
			c.addRef(ss.Ref, "components.securitySchemes."+name)
		}
	}
}

func (c *RefCollector) collectPathItem(item *PathItem, path string) {
	if item == nil {
		return
	}
	for i, p := range item.Parameters {
		c.collectParameter(p, fmt.Sprintf("%s.parameters[%d]", path, i))
	}
	for method, op := range item.Operations() {
		c.collectOperation(op, path+"."+method)
	}
}

func (c *RefCollector) collectOperation(op *Operation, path string) {
	for i, p := range op.Parameters {
		c.collectParameter(p, fmt.Sprintf("%s.parameters[%d]", path, i))
	}
	c.collectRequestBody(op.RequestBody, path+".requestBody")
	for code, r := range op.Responses {
		c.collectResponse(r, path+".responses."+code)
	}
	c.collectSecurity(op.Security, path+".security")
}

func (c *RefCollector) collectSecurity(reqs []SecurityRequirement, path string) {
	for i, req := range reqs {
		for name := range req {
			c.addRef(SecuritySchemeRef(name), fmt.Sprintf("%s[%d]", path, i))
		}
	}
}

func (c *RefCollector) collectParameter(p *Parameter, path string) {
	if p == nil {
		return
	}
	c.addRef(p.Ref, path)
	c.collectSchema(p.Schema, path+".schema")
}

func (c *RefCollector) collectRequestBody(rb *RequestBody, path string) {
	if rb == nil {
		return
	}
	c.addRef(rb.Ref, path)
	for mt, media := range rb.Content {
		if media != nil {
			c.collectSchema(media.Schema, path+".content."+mt+".schema")
		}
	}
}

func (c *RefCollector) collectResponse(r *Response, path string) {
	if r == nil {
		return
	}
	c.addRef(r.Ref, path)
	for name, h := range r.Headers {
		c.collectHeader(h, path+".headers."+name)
	}
	for mt, media := range r.Content {
		if media != nil {
			c.collectSchema(media.Schema, path+".content."+mt+".schema")
		}
	}
}

func (c *RefCollector) collectHeader(h *Header, path string) {
	if h == nil {
		return
	}
	c.addRef(h.Ref, path)
	c.collectSchema(h.Schema, path+".schema")
}

func (c *RefCollector) collectSchema(s *Schema, path string) {
	if s == nil || c.visited[s] {
		return
	}
	c.visited[s] = true

	c.addRef(s.Ref, path)
	c.collectSchema(s.Items, path+".items")
	for name, prop := range s.Properties {
		c.collectSchema(prop, path+".properties."+name)
	}
	if ap, ok := s.AdditionalProperties.(*Schema); ok {
		c.collectSchema(ap, path+".additionalProperties")
	}
	for i, sub := range s.AllOf {
		c.collectSchema(sub, fmt.Sprintf("%s.allOf[%d]", path, i))
	}
	for i, sub := range s.AnyOf {
		c.collectSchema(sub, fmt.Sprintf("%s.anyOf[%d]", path, i))
	}
	for i, sub := range s.OneOf {
		c.collectSchema(sub, fmt.Sprintf("%s.oneOf[%d]", path, i))
	}
	if s.Discriminator != nil {
		for _, ref := range s.Discriminator.Mapping {
			c.addRef(ref, path+".discriminator.mapping")
		}
	}
}

// UnresolvedRefs returns, sorted, every local reference in the document
// whose target component does not exist. Non-local references are ignored.
func (d *Document) UnresolvedRefs() []string {
	c := NewRefCollector()
	c.Collect(d)

	var missing []string
	for _, ref := range maputil.SortedKeys(c.Refs) {
		if !d.HasComponent(ref) {
			if typ, _ := ParseRef(ref); typ != RefTypeUnknown {
				missing = append(missing, ref)
			}
		}
	}
	return missing
}

// HasComponent reports whether ref names a component present in the document.
func (d *Document) HasComponent(ref string) bool {
	comp := d.Components
	if comp == nil {
		return false
	}
	typ, name := ParseRef(ref)
	switch typ {
	case RefTypeSchema:
		_, ok := comp.Schemas[name]
		return ok
	case RefTypeParameter:
		_, ok := comp.Parameters[name]
		return ok
	case RefTypeResponse:
		_, ok := comp.Responses[name]
		return ok
	case RefTypeRequestBody:
		_, ok := comp.RequestBodies[name]
		return ok
	case RefTypeHeader:
		_, ok := comp.Headers[name]
		return ok
	case RefTypeSecurityScheme:
		_, ok := comp.SecuritySchemes[name]
		return ok
	default:
		return false
	}
}
