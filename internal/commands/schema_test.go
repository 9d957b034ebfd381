package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("uint64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "string", normalizeFlagType("duration"))
	require.Equal(t, "string", normalizeFlagType("string"))
}

func TestTypedFlagDefault(t *testing.T) {
	require.Equal(t, true, typedFlagDefault("bool", "true"))
	require.Equal(t, 42, typedFlagDefault("int", "42"))
	require.Equal(t, "oops", typedFlagDefault("int", "oops"))
	require.Equal(t, "abc", typedFlagDefault("string", "abc"))
}

func TestIsRequiredFlag(t *testing.T) {
	reqByAnnotation := &pflag.Flag{Annotations: map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}}
	require.True(t, isRequiredFlag(reqByAnnotation))

	reqByUsage := &pflag.Flag{Usage: "Task id (required)"}
	require.True(t, isRequiredFlag(reqByUsage))

	notReq := &pflag.Flag{Usage: "optional flag"}
	require.False(t, isRequiredFlag(notReq))
}

func TestParseEnumValues(t *testing.T) {
	require.Equal(t, []string{"text", "json", "table"}, parseEnumValues("Output format: text|json|table"))
	require.Equal(t, []string{"file", "sqlite"}, parseEnumValues("Storage backend: file|sqlite (default: $TALLY_BACKEND or file)"))
	require.Nil(t, parseEnumValues("Override tasks storage path (default: $TALLY_TASKS_PATH)"))
	require.Nil(t, parseEnumValues(""))
}

func TestBuildCommandSchema_CollectsFlagsAndMutates(t *testing.T) {
	root := NewRootCmd("test")
	add, _, err := root.Find([]string{"add"})
	require.NoError(t, err)

	schema := buildCommandSchema(add)
	require.Equal(t, "tally add", schema.Command)
	require.Equal(t, "tally add <words...> [flags]", schema.Usage)
	require.True(t, schema.Mutates)

	props := schema.ArgsSchema["properties"].(map[string]any)
	require.Contains(t, props, "file")
	require.Contains(t, props, "strict")

	format := props["format"].(map[string]any)
	require.Equal(t, "string", format["type"])
	require.Equal(t, "text", format["default"])
	require.Equal(t, []string{"text", "json", "table"}, format["enum"])

	strict := props["strict"].(map[string]any)
	require.Equal(t, "boolean", strict["type"])
	require.Equal(t, false, strict["default"])
}

func TestCollectCommandSchemas_FiltersRootSchemaAndHidden(t *testing.T) {
	root := &cobra.Command{Use: "tally"}
	schemaCmd := &cobra.Command{Use: "schema"}
	visible := &cobra.Command{Use: "list", Short: "List"}
	hidden := &cobra.Command{Use: "secret", Hidden: true}

	root.AddCommand(schemaCmd, visible, hidden)

	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	require.Len(t, out, 1)
	require.Equal(t, "tally list", out[0].Command)
}

func TestSchemaCmd_PrintsJSON(t *testing.T) {
	setupCLIEnv(t)

	out, err := runCLI(t, "schema")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Commands []commandArgSchema `json:"commands"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	mutates := map[string]bool{}
	for _, c := range resp.Data.Commands {
		mutates[c.Command] = c.Mutates
	}
	require.Equal(t, map[string]bool{
		"tally add":      true,
		"tally list":     false,
		"tally complete": true,
		"tally path":     false,
		"tally doctor":   false,
	}, mutates)
}
