package openapi

// DocumentStats summarizes the size of a document.
type DocumentStats struct {
	PathCount           int `json:"pathCount"`
	OperationCount      int `json:"operationCount"`
	SchemaCount         int `json:"schemaCount"`
	ParameterCount      int `json:"parameterCount"`
	ResponseCount       int `json:"responseCount"`
	SecuritySchemeCount int `json:"securitySchemeCount"`
	TagCount            int `json:"tagCount"`
	ExtensionCount      int `json:"extensionCount"`
}

// Stats counts the document's paths, operations and components.
func (d *Document) Stats() DocumentStats {
	if d == nil {
		return DocumentStats{}
	}
	stats := DocumentStats{
		PathCount:      len(d.Paths),
		TagCount:       len(d.Tags),
		ExtensionCount: len(d.Extra),
	}
	for _, item := range d.Paths {
		if item != nil {
			stats.OperationCount += len(item.Operations())
		}
	}
	if c := d.Components; c != nil {
		stats.SchemaCount = len(c.Schemas)
		stats.ParameterCount = len(c.Parameters)
		stats.ResponseCount = len(c.Responses)
		stats.SecuritySchemeCount = len(c.SecuritySchemes)
	}
	return stats
}
