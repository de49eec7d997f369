package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/edmoas/oaserrors"
)

func TestNewConvertSettings(t *testing.T) {
	s := NewConvertSettings()
	assert.Equal(t, "http://localhost", s.ServiceRoot)
	assert.Equal(t, "3.0.4", s.OpenAPIVersion)
	assert.Equal(t, "1.0.0", s.SemVerVersion)
	assert.True(t, s.VerifyEdmModel)
	assert.True(t, s.EnableOperationPath)
	assert.True(t, s.EnableOperationImportPath)
	assert.True(t, s.EnableNavigationPropertyPath)
	assert.True(t, s.EnableDollarCountPath)
	assert.True(t, s.EnableOperationID)
	assert.False(t, s.EnableKeyAsSegment)
	assert.False(t, s.IEEE754Compatible)
	assert.Equal(t, 50, s.TopExample)
	assert.NoError(t, s.Validate())
	assert.False(t, s.IsOAS31())
}

func TestConvertSettingsClone(t *testing.T) {
	s := NewConvertSettings()
	c := s.Clone()
	c.PathPrefix = "/changed"
	assert.Empty(t, s.PathPrefix)
	assert.Nil(t, (*ConvertSettings)(nil).Clone())
}

func TestConvertSettingsValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ConvertSettings)
		wantValid bool
		option    string
	}{
		{"openapi 3.1", func(s *ConvertSettings) { s.OpenAPIVersion = "3.1.1" }, true, ""},
		{"openapi 3.0.0", func(s *ConvertSettings) { s.OpenAPIVersion = "3.0.0" }, true, ""},
		{"openapi 2.0", func(s *ConvertSettings) { s.OpenAPIVersion = "2.0" }, false, "OpenAPIVersion"},
		{"openapi 3.2", func(s *ConvertSettings) { s.OpenAPIVersion = "3.2.0" }, false, "OpenAPIVersion"},
		{"empty openapi", func(s *ConvertSettings) { s.OpenAPIVersion = "" }, false, "OpenAPIVersion"},
		{"negative top", func(s *ConvertSettings) { s.TopExample = -1 }, false, "TopExample"},
		{"zero top", func(s *ConvertSettings) { s.TopExample = 0 }, true, ""},
		{"relative root", func(s *ConvertSettings) { s.ServiceRoot = "services/trippin" }, false, "ServiceRoot"},
		{"empty root", func(s *ConvertSettings) { s.ServiceRoot = "" }, false, "ServiceRoot"},
		{"root with path", func(s *ConvertSettings) { s.ServiceRoot = "https://example.com/odata/v4" }, true, ""},
		{"prefix", func(s *ConvertSettings) { s.PathPrefix = "/odata/v4" }, true, ""},
		{"prefix without slash", func(s *ConvertSettings) { s.PathPrefix = "odata" }, false, "PathPrefix"},
		{"prefix trailing slash", func(s *ConvertSettings) { s.PathPrefix = "/odata/" }, false, "PathPrefix"},
		{"prefix with template", func(s *ConvertSettings) { s.PathPrefix = "/{tenant}" }, false, "PathPrefix"},
		{"unknown style", func(s *ConvertSettings) { s.OperationIDStyle = 7 }, false, "OperationIDStyle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewConvertSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
			var cfgErr *oaserrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestParseOperationIDStyle(t *testing.T) {
	tests := []struct {
		in   string
		want OperationIDStyle
	}{
		{"", OperationIDDotted},
		{"dotted", OperationIDDotted},
		{"Camel", OperationIDCamel},
		{"snake", OperationIDSnake},
	}
	for _, tt := range tests {
		got, err := ParseOperationIDStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseOperationIDStyle("kebab")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Equal(t, "unknown", OperationIDStyle(9).String())
}
