package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/edmoas/csdl"
)

// modelInput represents the two ways a CSDL model can be provided to a tool.
// Exactly one of File or Content must be set.
type modelInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a CSDL JSON or YAML file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline CSDL document content (JSON or YAML)"`
}

// makeCacheKey creates a cache key for the given model input.
// The schema check flag is part of the key since it changes what is accepted.
func makeCacheKey(m modelInput, schemaCheck bool) string {
	suffix := ""
	if schemaCheck {
		suffix = ":checked"
	}
	switch {
	case m.File != "":
		absPath, err := filepath.Abs(m.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d%s", absPath, info.ModTime().UnixNano(), suffix)
	case m.Content != "":
		h := sha256.Sum256([]byte(m.Content))
		return "content:" + hex.EncodeToString(h[:]) + suffix
	default:
		return ""
	}
}

// resolve reads the model from whichever input was provided, using the cache
// when it is enabled.
func (m modelInput) resolve(schemaCheck bool) (*csdl.ReadResult, error) {
	count := 0
	if m.File != "" {
		count++
	}
	if m.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	if m.Content != "" && int64(len(m.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set %sMAX_INLINE_SIZE to increase",
			len(m.Content), cfg.MaxInlineSize, envPrefix)
	}

	var key string
	ttl := cfg.CacheContentTTL
	if m.File != "" {
		ttl = cfg.CacheFileTTL
	}
	if cfg.CacheEnabled {
		key = makeCacheKey(m, schemaCheck)
	}
	if key != "" {
		if cached, ok := modelCache.get(key); ok {
			return cached, nil
		}
	}

	opts := []csdl.Option{csdl.WithSchemaCheck(schemaCheck)}
	if m.File != "" {
		opts = append(opts, csdl.WithFilePath(m.File))
	} else {
		opts = append(opts, csdl.WithBytes([]byte(m.Content)))
	}
	result, err := csdl.ReadWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		modelCache.put(key, result, ttl)
	}
	return result, nil
}
