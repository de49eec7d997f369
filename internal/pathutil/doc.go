// Package pathutil validates file paths supplied by callers before
// generated documents are written to them.
//
// [SanitizeOutputPath] cleans a path, resolves it to an absolute path and
// rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // symlink or unresolvable path
//	}
package pathutil
