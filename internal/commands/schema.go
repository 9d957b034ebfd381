package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dotcommander/tally/internal/output"
)

type commandArgSchema struct {
	Command     string         `json:"command"`
	Usage       string         `json:"usage"`
	Description string         `json:"description,omitempty"`
	Mutates     bool           `json:"mutates"`
	ArgsSchema  map[string]any `json:"args_schema"`
}

// NewSchemaCmd creates the schema command. root is walked to collect command schemas.
func NewSchemaCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print command and flag schemas as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var schemas []commandArgSchema
			collectCommandSchemas(root, &schemas)

			type resp struct {
				Commands []commandArgSchema `json:"commands"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Commands: schemas})
		},
	}
}

func collectCommandSchemas(cmd *cobra.Command, out *[]commandArgSchema) {
	if cmd.HasParent() && cmd.Name() != "schema" && !cmd.Hidden && cmd.Name() != "help" {
		*out = append(*out, buildCommandSchema(cmd))
	}

	for _, child := range cmd.Commands() {
		collectCommandSchemas(child, out)
	}
}

func buildCommandSchema(cmd *cobra.Command) commandArgSchema {
	properties := map[string]any{}
	required := make([]string, 0)
	seen := map[string]bool{}

	addFlag := func(f *pflag.Flag) {
		if f.Hidden || seen[f.Name] {
			return
		}
		seen[f.Name] = true

		flagSchema := map[string]any{
			"type":        normalizeFlagType(f.Value.Type()),
			"description": f.Usage,
		}

		if f.DefValue != "" {
			flagSchema["default"] = typedFlagDefault(f.Value.Type(), f.DefValue)
		}

		if enumValues := parseEnumValues(f.Usage); len(enumValues) > 0 {
			flagSchema["enum"] = enumValues
		}

		properties[f.Name] = flagSchema

		if isRequiredFlag(f) {
			required = append(required, f.Name)
		}
	}

	cmd.InheritedFlags().VisitAll(addFlag)
	cmd.NonInheritedFlags().VisitAll(addFlag)

	argsSchema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		argsSchema["required"] = required
	}

	return commandArgSchema{
		Command:     cmd.CommandPath(),
		Usage:       cmd.UseLine(),
		Description: cmd.Short,
		Mutates:     cmd.Annotations["mutates"] == "true",
		ArgsSchema:  argsSchema,
	}
}

func normalizeFlagType(flagType string) string {
	switch flagType {
	case "int", "int64", "int32", "uint", "uint64", "uint32":
		return "integer"
	case "bool":
		return "boolean"
	default:
		return "string"
	}
}

func typedFlagDefault(flagType, raw string) any {
	switch flagType {
	case "bool":
		v, err := strconv.ParseBool(raw)
		if err == nil {
			return v
		}
	case "int", "int64", "int32", "uint", "uint64", "uint32":
		v, err := strconv.Atoi(raw)
		if err == nil {
			return v
		}
	}
	return raw
}

func isRequiredFlag(f *pflag.Flag) bool {
	if f.Annotations != nil {
		if vals, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok && len(vals) > 0 && vals[0] == "true" {
			return true
		}
	}

	usage := strings.ToLower(strings.TrimSpace(f.Usage))
	return strings.Contains(usage, "(required)")
}

// parseEnumValues extracts "a|b|c" choices following a colon in a flag usage string.
func parseEnumValues(usage string) []string {
	idx := strings.Index(usage, ":")
	if idx < 0 {
		return nil
	}
	cand := strings.TrimSpace(usage[idx+1:])
	if end := strings.IndexAny(cand, " ("); end >= 0 {
		cand = cand[:end]
	}
	if !strings.Contains(cand, "|") {
		return nil
	}

	values := make([]string, 0)
	for _, p := range strings.Split(cand, "|") {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) < 2 {
		return nil
	}
	return values
}
