package httputil

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPMethodConstants(t *testing.T) {
	assert.Equal(t, "get", MethodGet, "MethodGet should be lowercase")
	assert.Equal(t, "put", MethodPut, "MethodPut should be lowercase")
	assert.Equal(t, "post", MethodPost, "MethodPost should be lowercase")
	assert.Equal(t, "delete", MethodDelete, "MethodDelete should be lowercase")
	assert.Equal(t, "patch", MethodPatch, "MethodPatch should be lowercase")
}

func TestStatusKeys(t *testing.T) {
	assert.Equal(t, strconv.Itoa(http.StatusOK), StatusOK)
	assert.Equal(t, strconv.Itoa(http.StatusCreated), StatusCreated)
	assert.Equal(t, strconv.Itoa(http.StatusNoContent), StatusNoContent)
	assert.Equal(t, "default", StatusDefault)
}
