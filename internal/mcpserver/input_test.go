package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trippinPath = "../../testdata/trippin.json"
	invalidPath = "../../testdata/invalid.json"
)

// minimalCSDL is a small valid CSDL JSON model used across tool tests.
const minimalCSDL = `{
  "$Version": "4.01",
  "$EntityContainer": "Shop.Container",
  "Shop": {
    "Product": {
      "$Kind": "EntityType",
      "$Key": ["ID"],
      "ID": {"$Type": "Edm.Int32"},
      "Name": {"$Nullable": true}
    },
    "Container": {
      "$Kind": "EntityContainer",
      "Products": {"$Collection": true, "$Type": "Shop.Product"}
    }
  }
}`

func TestModelInput_ResolveFile(t *testing.T) {
	modelCache.clear()
	input := modelInput{File: trippinPath}
	result, err := input.resolve(false)
	require.NoError(t, err)
	require.NotNil(t, result.Model)
	assert.Equal(t, "4.0", result.Model.Version)
}

func TestModelInput_ResolveContent(t *testing.T) {
	modelCache.clear()
	input := modelInput{Content: minimalCSDL}
	result, err := input.resolve(false)
	require.NoError(t, err)
	require.NotNil(t, result.Model)
	assert.Equal(t, "4.01", result.Model.Version)
}

func TestModelInput_ResolveNoneProvided(t *testing.T) {
	_, err := modelInput{}.resolve(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content")
}

func TestModelInput_ResolveMultipleProvided(t *testing.T) {
	_, err := modelInput{File: trippinPath, Content: minimalCSDL}.resolve(false)
	assert.Error(t, err)
}

func TestModelInput_ResolveFileNotFound(t *testing.T) {
	_, err := modelInput{File: "nonexistent.json"}.resolve(false)
	assert.Error(t, err)
}

func TestModelInput_InlineSizeLimit(t *testing.T) {
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = old })

	_, err := modelInput{Content: minimalCSDL}.resolve(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EDMOAS_MCP_MAX_INLINE_SIZE")
}

func TestModelCache_HitOnSameFile(t *testing.T) {
	modelCache.clear()
	input := modelInput{File: trippinPath}

	result1, err := input.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, 1, modelCache.len())

	result2, err := input.resolve(false)
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")

	// The schema check changes what is accepted, so it is a separate entry.
	result3, err := input.resolve(true)
	require.NoError(t, err)
	assert.NotSame(t, result1, result3)
	assert.Equal(t, 2, modelCache.len())
}

func TestModelCache_MissOnModifiedFile(t *testing.T) {
	modelCache.clear()

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalCSDL), 0o644))

	input := modelInput{File: path}
	result1, err := input.resolve(false)
	require.NoError(t, err)
	assert.Equal(t, "Shop", result1.Model.Schemas[0].Namespace)

	renamed := strings.ReplaceAll(minimalCSDL, "Shop", "Store")
	require.NoError(t, os.WriteFile(path, []byte(renamed), 0o644))

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve(false)
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	assert.Equal(t, "Store", result2.Model.Schemas[0].Namespace)
}

func TestModelCache_ContentHash(t *testing.T) {
	modelCache.clear()
	input := modelInput{Content: minimalCSDL}

	result1, err := input.resolve(false)
	require.NoError(t, err)
	result2, err := input.resolve(false)
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestModelCache_Disabled(t *testing.T) {
	modelCache.clear()
	old := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = old })

	_, err := modelInput{Content: minimalCSDL}.resolve(false)
	require.NoError(t, err)
	assert.Zero(t, modelCache.len())
}

func TestModelCache_LRUEviction(t *testing.T) {
	modelCache.clear()

	// Fill the cache (size 10), touch the first model, then add one more:
	// the second model is now the least recently used.
	inputs := make([]modelInput, 11)
	for i := range inputs {
		inputs[i] = modelInput{Content: strings.ReplaceAll(minimalCSDL, "Shop", "Shop"+string(rune('A'+i)))}
	}
	for _, in := range inputs[:10] {
		_, err := in.resolve(false)
		require.NoError(t, err)
	}
	_, err := inputs[0].resolve(false)
	require.NoError(t, err)
	_, err = inputs[10].resolve(false)
	require.NoError(t, err)

	assert.Equal(t, 10, modelCache.len())
	_, ok := modelCache.get(makeCacheKey(inputs[0], false))
	assert.True(t, ok, "recently used entry should survive")
	_, ok = modelCache.get(makeCacheKey(inputs[1], false))
	assert.False(t, ok, "least recently used entry should be evicted")
}

func TestLRUCache_SweepRemovesExpired(t *testing.T) {
	c := newLRUCache[string](4)
	c.put("expired", "a", -time.Second)
	c.put("fresh", "b", time.Hour)
	c.sweep()

	assert.Equal(t, 1, c.len())
	_, ok := c.get("expired")
	assert.False(t, ok)
	v, ok := c.get("fresh")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestLRUCache_GetDropsExpired(t *testing.T) {
	c := newLRUCache[int](4)
	c.put("k", 1, -time.Second)
	_, ok := c.get("k")
	assert.False(t, ok)
	assert.Zero(t, c.len())
}

func TestLRUCache_PutReplaces(t *testing.T) {
	c := newLRUCache[int](2)
	c.put("a", 1, time.Hour)
	c.put("b", 2, time.Hour)
	c.put("a", 3, time.Hour)
	c.put("c", 4, time.Hour)

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = c.get("b")
	assert.False(t, ok, "b was least recently used")
}

func TestLRUCache_StartSweeperStopsWithContext(t *testing.T) {
	c := newLRUCache[int](4)
	c.put("k", 1, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	c.startSweeper(ctx, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return c.len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return !c.sweeping.Load() }, time.Second, 5*time.Millisecond)
}

func TestMakeCacheKey(t *testing.T) {
	assert.Empty(t, makeCacheKey(modelInput{}, false))
	assert.Empty(t, makeCacheKey(modelInput{File: "missing.json"}, false))
	assert.True(t, strings.HasPrefix(makeCacheKey(modelInput{Content: "x"}, false), "content:"))
	assert.True(t, strings.HasSuffix(makeCacheKey(modelInput{Content: "x"}, true), ":checked"))
	assert.True(t, strings.HasPrefix(makeCacheKey(modelInput{File: trippinPath}, false), "file:"))
}
