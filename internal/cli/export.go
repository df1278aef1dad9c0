package cli

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/io"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/render/graphviz"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// exportFormats are the formats the export command writes.
var exportFormats = []string{pipeline.FormatDOT, io.FormatJSON, io.FormatYAML, io.FormatTOML}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format    string
		output    string
		theme     string
		themeFile string
	)

	cmd := &cobra.Command{
		Use:   "export [model]",
		Short: "Export a model as Graphviz DOT or convert it between JSON, YAML and TOML",
		Long: `Export a validated model without rendering it.

The dot format writes the entities and relationships as a Graphviz graph with
pinned positions (render with "neato"). The json, yaml and toml formats
re-encode the model itself.

Output goes to stdout unless --output is given.`,
		Example: `  diagramkit export examples/erd.yaml | neato -Tsvg > erd.svg
  diagramkit export examples/erd.yaml -f toml -o erd.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(exportFormats, format) {
				return fmt.Errorf("invalid export format %q (must be one of: dot, json, yaml, toml)", format)
			}
			m, err := io.Load(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}
			if err := m.Validate(); err != nil {
				return err
			}

			opts, err := c.config().PipelineOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("theme") {
				opts.Theme = theme
				opts.CustomTheme = nil
			}
			if themeFile != "" {
				th, err := style.LoadTheme(themeFile)
				if err != nil {
					return err
				}
				opts.CustomTheme = &th
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			data, err := exportModel(m, format, opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported %s", StyleHighlight.Render(args[0]))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "export format: dot, json, yaml, toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&theme, "theme", "", "built-in theme for DOT colors")
	cmd.Flags().StringVar(&themeFile, "theme-file", "", "TOML theme file for DOT colors")

	return cmd
}

func exportModel(m *diagram.Model, format string, opts pipeline.Options) ([]byte, error) {
	if format == pipeline.FormatDOT {
		return []byte(graphviz.ToDOT(m, opts.GraphvizOptions())), nil
	}
	var buf bytes.Buffer
	if err := io.Write(m, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
