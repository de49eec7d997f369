package converter

import (
	"github.com/erraggy/edmoas/openapi"
)

const extensionDocsTocType = "x-ms-docs-toc-type"

// CreateTags returns one tag per entity set, singleton and operation
// import, in container order.
func CreateTags(ctx *Context) ([]*openapi.Tag, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	ec := ctx.EntityContainer()
	if ec == nil {
		return nil, nil
	}

	var tags []*openapi.Tag
	add := func(name, description, tocType string) {
		tag := &openapi.Tag{Name: name, Description: description}
		tag.Extra = map[string]any{extensionDocsTocType: tocType}
		tags = append(tags, tag)
	}
	for _, es := range ec.EntitySets {
		add(es.Name, entityDescription(ctx, es.Description, es.EntityType), "page")
	}
	for _, s := range ec.Singletons {
		add(s.Name, entityDescription(ctx, s.Description, s.Type), "page")
	}
	for _, imp := range ec.OperationImports {
		tocType := "container"
		add(imp.Name, imp.Description, tocType)
	}
	return tags, nil
}

// entityDescription prefers the container member's description and falls
// back to the entity type's.
func entityDescription(ctx *Context, own, typeName string) string {
	if own != "" {
		return own
	}
	if et := ctx.FindEntityType(typeName); et != nil {
		return et.Description
	}
	return ""
}

func applyTags(ctx *Context, doc *openapi.Document) error {
	tags, err := CreateTags(ctx)
	if err != nil {
		return err
	}
	doc.Tags = append(doc.Tags, tags...)
	return nil
}
