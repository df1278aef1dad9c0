package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/io"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [model...]",
		Short: "Check models for errors without rendering",
		Long: `Load each model, check its shape and references, and compose it to surface
non-fatal diagnostics such as unresolved style categories or truncated labels.

Exit status is non-zero when any model is invalid, or with --strict when any
model produces diagnostics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.config().PipelineOptions()
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runValidate(cmd.Context(), args, opts, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat diagnostics as failures")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, inputs []string, opts pipeline.Options, strict bool) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	failed := 0
	for _, input := range inputs {
		ok, err := c.validateOne(ctx, runner, input, opts, strict)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models failed validation", failed, len(inputs))
	}
	return nil
}

// validateOne reports a single model. Only context cancellation is
// returned as an error; model problems are printed and counted.
func (c *CLI) validateOne(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, strict bool) (bool, error) {
	m, err := io.Load(input)
	if err != nil {
		printError("%s: %s", input, errors.UserMessage(err))
		return false, nil
	}
	sc, err := runner.Compose(ctx, m, opts)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		printError("%s: %s", input, errors.UserMessage(err))
		if ref := errors.GetRef(err); ref != "" {
			printDetail("code %s, ref %q", errors.GetCode(err), ref)
		}
		return false, nil
	}

	if len(sc.Warnings) == 0 {
		printSuccess("%s %s", input, StyleDim.Render("("+m.Kind()+")"))
		return true, nil
	}
	if strict {
		printError("%s: %d diagnostics", input, len(sc.Warnings))
	} else {
		printSuccess("%s %s", input, StyleDim.Render(fmt.Sprintf("(%s, %d diagnostics)", m.Kind(), len(sc.Warnings))))
	}
	for _, w := range sc.Warnings {
		printWarning("%s", w.String())
	}
	return !strict, nil
}
