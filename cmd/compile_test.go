package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModuleSpec_SplitsOnLastColon(t *testing.T) {
	module, attr, err := parseModuleSpec("app.main:api")
	require.NoError(t, err)
	require.Equal(t, "app.main", module)
	require.Equal(t, "api", attr)
}

func TestParseModuleSpec_RejectsMissingColon(t *testing.T) {
	_, _, err := parseModuleSpec("app.main")
	require.Error(t, err)
}

func TestParseModuleSpec_RejectsEmptyModuleOrAttr(t *testing.T) {
	_, _, err := parseModuleSpec(":api")
	require.Error(t, err)

	_, _, err = parseModuleSpec("app.main:")
	require.Error(t, err)
}
