package doctest

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot resolves the module root from this test file's location.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller(0) failed to retrieve file path")
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// TestPackageDocOptions verifies that every exported With* function in each
// package is named in its doc.go, and that every With* named there exists.
func TestPackageDocOptions(t *testing.T) {
	root := repoRoot(t)

	for _, pkg := range []string{"converter", "csdl", "validator"} {
		t.Run(pkg, func(t *testing.T) {
			pkgDir := filepath.Join(root, pkg)

			sourceOpts := extractWithFunctions(t, pkgDir)
			require.NotEmpty(t, sourceOpts, "no With* functions found in %s", pkg)

			docOpts := extractDocOptions(t, filepath.Join(pkgDir, "doc.go"))

			sourceSet := make(map[string]bool, len(sourceOpts))
			for _, fn := range sourceOpts {
				sourceSet[fn] = true
				assert.True(t, docOpts[fn], "function %s() exists in %s/ but is not mentioned in doc.go", fn, pkg)
			}
			for fn := range docOpts {
				assert.True(t, sourceSet[fn], "doc.go mentions %s() but no such function exists in %s/", fn, pkg)
			}
		})
	}
}

// extractWithFunctions uses go/ast to find all exported With* functions
// (not methods) in the given package directory, excluding test files.
func extractWithFunctions(t *testing.T, dir string) []string {
	t.Helper()

	var funcs []string
	for _, file := range parsePackage(t, dir) {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil {
				continue
			}
			if fn.Name.IsExported() && strings.HasPrefix(fn.Name.Name, "With") {
				funcs = append(funcs, fn.Name.Name)
			}
		}
	}
	return funcs
}

// docOptionRe matches With* identifiers that are not the tail of a longer
// name, so ConvertWithOptions is not read as WithOptions.
var docOptionRe = regexp.MustCompile(`\b(With[A-Z][a-zA-Z0-9]*)`)

// extractDocOptions returns the With* names mentioned in the comment lines
// of a doc.go file, both in prose doc links and in code examples.
func extractDocOptions(t *testing.T, path string) map[string]bool {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)

	result := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "//") {
			continue
		}
		for _, match := range docOptionRe.FindAllStringSubmatch(line, -1) {
			result[match[1]] = true
		}
	}
	return result
}

// parsePackage parses the non-test Go files of dir.
func parsePackage(t *testing.T, dir string) []*ast.File {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "reading package dir %s", dir)

	fset := token.NewFileSet()
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := goparser.ParseFile(fset, filepath.Join(dir, name), nil, goparser.ParseComments)
		require.NoError(t, err, "parsing %s", name)
		files = append(files, f)
	}
	return files
}
