package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"winnow/internal/audit"
	"winnow/internal/processor"
	"winnow/internal/prompt"
	"winnow/internal/tui"
	"winnow/pkg/imgutil"
)

const confirmQuestion = "Are you sure you want to continue? (yes/no): "

type pruneFlags struct {
	width              int
	height             int
	dryRun             bool
	yes                bool
	workers            int
	respectOrientation bool
	auditLog           string
	plain              bool
}

func newRootCmd() *cobra.Command {
	var flags pruneFlags

	root := &cobra.Command{
		Use:   "winnow [flags] <folder>",
		Short: "winnow 🌾 - delete images smaller than a minimum size",
		Long: "winnow 🌾 measures every image directly inside a folder and deletes the ones\n" +
			"narrower than --width or shorter than --height. Subfolders are not entered.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, args[0], flags)
		},
	}

	root.Flags().IntVar(&flags.width, "width", 400, "minimum width in pixels")
	root.Flags().IntVar(&flags.height, "height", 400, "minimum height in pixels")
	root.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show what would be deleted without deleting anything")
	root.Flags().BoolVarP(&flags.yes, "yes", "y", false, "skip the confirmation prompt")
	root.Flags().IntVar(&flags.workers, "workers", 1, "images measured concurrently (0 = one per CPU)")
	root.Flags().BoolVar(&flags.respectOrientation, "respect-orientation", false, "swap width and height for EXIF-rotated JPEG/TIFF images")
	root.Flags().StringVar(&flags.auditLog, "audit-log", "", "append a JSON line per decision to this file")
	root.Flags().BoolVar(&flags.plain, "plain", false, "print plain lines instead of the progress view")

	root.SetHelpCommand(&cobra.Command{Hidden: true})
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, processor.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// exitCode treats an operator cancellation as a normal exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, processor.ErrCancelled) {
		return 0
	}
	return 1
}

func runPrune(cmd *cobra.Command, folder string, flags pruneFlags) error {
	if flags.width <= 0 || flags.height <= 0 {
		return fmt.Errorf("--width and --height must be positive, got %dx%d", flags.width, flags.height)
	}
	if flags.workers < 0 {
		return fmt.Errorf("--workers cannot be negative, got %d", flags.workers)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	threshold := processor.Threshold{MinWidth: flags.width, MinHeight: flags.height}

	if !flags.dryRun && !flags.yes {
		fmt.Fprintln(out, tui.RenderWarning(folder, threshold))
		confirmed, err := prompt.Confirm(ctx, confirmQuestion, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Operation cancelled.")
			return processor.ErrCancelled
		}
	}

	fsys := processor.NewOSFileSystem()
	if err := processor.ValidateFolder(fsys, folder); err != nil {
		return err
	}

	auditLog, closer, err := audit.Open(flags.auditLog)
	if err != nil {
		return err
	}
	defer closer.Close()

	workers := flags.workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	opts := processor.Options{
		Threshold: threshold,
		DryRun:    flags.dryRun,
		Workers:   workers,
		FS:        fsys,
		Reader:    &imgutil.Reader{RespectOrientation: flags.respectOrientation},
		Audit:     auditLog,
	}

	fmt.Fprintln(out, tui.RenderHeader(folder, threshold, flags.dryRun))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan processor.ProgressUpdate, 64)
	uiDone := make(chan struct{})

	if tty, ok := terminal(out); ok && !flags.plain {
		program := tea.NewProgram(tui.NewModel(updates, flags.dryRun, cancel), tea.WithOutput(tty))
		go func() {
			defer close(uiDone)
			_, _ = program.Run()
			// The view may quit early on ctrl+c; keep the run unblocked.
			for range updates {
			}
		}()
	} else {
		go func() {
			defer close(uiDone)
			tui.Print(out, updates)
		}()
	}

	summary, err := processor.Run(ctx, folder, opts, updates)
	close(updates)
	<-uiDone

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if summary.Considered == 0 {
		fmt.Fprintln(out, "No image files found in the folder.")
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))
	if err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return nil
}

func terminal(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, false
	}
	return f, term.IsTerminal(int(f.Fd()))
}
