package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/io"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// defaultDebounce coalesces the bursts of events editors emit on save.
const defaultDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    renderFlags
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [model]",
		Short: "Re-compose a model whenever it changes",
		Long: `Compose a model, then watch it (and the --theme-file, if any) and compose
again on every change. Errors are reported and watching continues; stop with
Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], output, flags, opts, debounce)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before recomposing")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input, output string, flags renderFlags, opts pipeline.Options, debounce time.Duration) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	themeFile := flags.themeFile
	if themeFile == "" && !flags.themeSet {
		themeFile = c.config().Render.ThemeFile
	}

	rebuild := func(ctx context.Context) error {
		if themeFile != "" {
			th, err := style.LoadTheme(themeFile)
			if err != nil {
				return err
			}
			opts.CustomTheme = &th
		}
		m, err := io.Load(input)
		if err != nil {
			return err
		}
		res, err := runner.Execute(ctx, m, opts)
		if err != nil {
			return err
		}
		paths, err := writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   opts.Formats,
			input:     input,
			output:    output,
		})
		if err != nil {
			return err
		}
		printResult(input, res, paths)
		return nil
	}

	files := []string{input}
	if themeFile != "" {
		files = append(files, themeFile)
	}
	w := &fileWatcher{
		files:    files,
		debounce: debounce,
		logger:   c.Logger,
		rebuild:  rebuild,
	}
	printInfo("Watching %s %s", StyleHighlight.Render(input), StyleDim.Render("(Ctrl-C to stop)"))
	return w.run(ctx)
}

// fileWatcher calls rebuild once at start and again after each burst of
// changes to any of files. Directories are watched rather than files so
// that editors replacing a file by rename keep being tracked.
type fileWatcher struct {
	files    []string
	debounce time.Duration
	logger   *log.Logger
	rebuild  func(context.Context) error
}

func (fw *fileWatcher) run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool, len(fw.files))
	dirs := make(map[string]bool)
	for _, f := range fw.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	fw.build(ctx)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(fw.debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(fw.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			fw.logger.Debug("watcher stopped")
			return nil

		case <-timerCh:
			timer, timerCh = nil, nil
			fw.build(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			fw.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("watch error", "err", err)
		}
	}
}

// build runs rebuild and reports failures without stopping the loop.
func (fw *fileWatcher) build(ctx context.Context) {
	if err := fw.rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		printError("%s", errors.UserMessage(err))
		fw.logger.Debug("rebuild failed", "code", errors.GetCode(err), "err", err)
	}
}
