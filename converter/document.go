package converter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/erraggy/edmoas"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

// ExtensionModelError prefixes the extensions of an error document. The
// i-th model error (1-based) is stored under ExtensionModelError + i.
const ExtensionModelError = "x-ms-edm-model-error"

const extensionGeneratedBy = "x-ms-generated-by"

// createDocument assembles a full document by running generators in order.
func (c *Context) createDocument(generators []Generator) (*openapi.Document, error) {
	if c == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("context"))
	}
	settings := c.settings

	doc := openapi.NewDocument(settings.OpenAPIVersion)
	doc.Info = &openapi.Info{
		Title:       "OData Service for namespace " + c.namespace(),
		Description: "This OData service is located at " + settings.ServiceRoot,
		Version:     settings.SemVerVersion,
	}
	doc.Servers = []*openapi.Server{{URL: settings.ServiceRoot}}

	for _, g := range generators {
		if g == nil {
			continue
		}
		start := time.Now()
		if err := g.Apply(c, doc); err != nil {
			return nil, fmt.Errorf("converter: %w", err)
		}
		c.logger.Debug("generator applied", "generator", g.Name(), "elapsed", time.Since(start))
	}

	doc.Security = declaredRequirements(doc, CreateSecurityRequirements(c))
	if settings.AddGeneratorExtension {
		doc.SetExtension(extensionGeneratedBy, map[string]any{
			"toolName":    "edmoas",
			"toolVersion": edmoas.Version(),
		})
	}
	return doc, nil
}

// namespace returns the namespace named in the document title.
func (c *Context) namespace() string {
	if ec := c.model.EntityContainer; ec != nil && ec.Namespace != "" {
		return ec.Namespace
	}
	if len(c.model.Schemas) > 0 && c.model.Schemas[0].Namespace != "" {
		return c.model.Schemas[0].Namespace
	}
	return "Default"
}

// errorDocument returns a document holding only the OpenAPI version and
// one extension per model error, in order.
func errorDocument(version string, errs []error) *openapi.Document {
	doc := openapi.NewDocument(version)
	for i, err := range errs {
		msg := "<nil>"
		if err != nil {
			msg = err.Error()
		}
		doc.SetExtension(ExtensionModelError+strconv.Itoa(i+1), msg)
	}
	return doc
}
