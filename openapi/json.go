package openapi

import "encoding/json"

// marshalWithExtra marshals v (an alias type without MarshalJSON) and
// flattens extra into the resulting object. This is required because Go's
// encoding/json has no equivalent of yaml:",inline" for maps.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, val := range extra {
		m[k] = val
	}
	return json.Marshal(m)
}

// MarshalJSON implements custom JSON marshaling for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	return marshalWithExtra((*alias)(d), d.Extra)
}

// MarshalJSON implements custom JSON marshaling for Components.
func (c *Components) MarshalJSON() ([]byte, error) {
	type alias Components
	return marshalWithExtra((*alias)(c), c.Extra)
}

// MarshalJSON implements custom JSON marshaling for Info.
func (i *Info) MarshalJSON() ([]byte, error) {
	type alias Info
	return marshalWithExtra((*alias)(i), i.Extra)
}

// MarshalJSON implements custom JSON marshaling for Server.
func (s *Server) MarshalJSON() ([]byte, error) {
	type alias Server
	return marshalWithExtra((*alias)(s), s.Extra)
}

// MarshalJSON implements custom JSON marshaling for Tag.
func (t *Tag) MarshalJSON() ([]byte, error) {
	type alias Tag
	return marshalWithExtra((*alias)(t), t.Extra)
}

// MarshalJSON implements custom JSON marshaling for PathItem.
func (p *PathItem) MarshalJSON() ([]byte, error) {
	type alias PathItem
	return marshalWithExtra((*alias)(p), p.Extra)
}

// MarshalJSON implements custom JSON marshaling for Operation.
func (o *Operation) MarshalJSON() ([]byte, error) {
	type alias Operation
	return marshalWithExtra((*alias)(o), o.Extra)
}

// MarshalJSON implements custom JSON marshaling for Parameter.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	type alias Parameter
	return marshalWithExtra((*alias)(p), p.Extra)
}

// MarshalJSON implements custom JSON marshaling for Response.
func (r *Response) MarshalJSON() ([]byte, error) {
	type alias Response
	return marshalWithExtra((*alias)(r), r.Extra)
}

// MarshalJSON implements custom JSON marshaling for Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	return marshalWithExtra((*alias)(s), s.Extra)
}

// MarshalJSON implements custom JSON marshaling for SecurityScheme.
func (ss *SecurityScheme) MarshalJSON() ([]byte, error) {
	type alias SecurityScheme
	return marshalWithExtra((*alias)(ss), ss.Extra)
}
