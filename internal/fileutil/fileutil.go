// Package fileutil holds the file modes used when writing generated output.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for generated OpenAPI
// documents, which may describe private services (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600
