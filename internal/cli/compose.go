package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/io"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
)

// composeCommand creates the compose command, the main entry point from
// model files to rendered outputs.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:     "compose [model...]",
		Aliases: []string{"render"},
		Short:   "Compose models and render them to SVG, PNG, PDF or JSON",
		Long: `Compose one or more model files (JSON, YAML or TOML) into scenes and render
them in the requested formats.

With a single model, --output names the output file (single format) or base
path (multiple formats). With several models, --output names a directory and
each model keeps its own base name. Several models are composed in parallel.

Scenes and rendered outputs are cached by content hash.`,
		Example: `  diagramkit compose examples/erd.yaml
  diagramkit compose examples/userflows.yaml -f svg,png -o out/flows
  diagramkit compose examples/*.yaml -o out --theme mono`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return c.runCompose(cmd.Context(), args[0], output, opts, flags.noCache)
			}
			return c.runComposeBatch(cmd.Context(), args, output, jobs, opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple formats) or directory (multiple models)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "models composed in parallel (0 = all)")

	return cmd
}

// runCompose loads one model, runs the pipeline and writes the outputs.
func (c *CLI) runCompose(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	m, err := io.Load(input)
	if err != nil {
		return fmt.Errorf("load model %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %s...", filepath.Base(input)))
	spinner.Start()

	res, err := runner.Execute(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return fmt.Errorf("compose %s: %w", input, err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	prog.done("Composed " + input)
	printResult(input, res, paths)
	return nil
}

// runComposeBatch composes several models concurrently. Nothing is written
// unless every model succeeds.
func (c *CLI) runComposeBatch(ctx context.Context, inputs []string, output string, limit int, opts pipeline.Options, noCache bool) error {
	batch := make([]pipeline.Job, len(inputs))
	for i, input := range inputs {
		m, err := io.Load(input)
		if err != nil {
			return fmt.Errorf("load model %s: %w", input, err)
		}
		batch[i] = pipeline.Job{Name: input, Model: m, Options: opts}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d models...", len(inputs)))
	spinner.Start()

	results, err := runner.ExecuteBatch(ctx, batch, limit)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()

	for i, res := range results {
		paths, err := writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   opts.Formats,
			input:     inputs[i],
			output:    output,
			dir:       output != "",
		})
		if err != nil {
			return err
		}
		printResult(inputs[i], res, paths)
	}
	prog.done(fmt.Sprintf("Composed %d models", len(results)))
	return nil
}

// printResult reports one composed model.
func printResult(input string, res *pipeline.Result, paths []string) {
	printSuccess("Composed %s %s", StyleHighlight.Render(input), StyleDim.Render("("+modelKind(res.Model)+")"))
	printStats(res.Stats, res.CacheInfo.SceneHit && res.CacheInfo.RenderHit)
	for _, w := range res.Warnings() {
		printWarning("%s", w.String())
	}
	for _, p := range paths {
		printFile(p)
	}
}

func modelKind(m *diagram.Model) string {
	if m == nil {
		return "empty"
	}
	return m.Kind()
}
