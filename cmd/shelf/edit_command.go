package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"shelf/internal/reconcile"
	"shelf/internal/session"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		all    bool
		from   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Bulk edit items as plain text",
		Long: "Open the filtered items in $EDITOR, one per line. Editing a line renames the item, " +
			"removing a line deletes it and new lines create items. With --all every line carries " +
			"a [Section] label.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				prefs := s.Prefs()
				buf := s.BuildEdit(prefs.Scope(all), prefs.Filter())

				edited, err := readEditedBuffer(cmd, buf.Text, from)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if dryRun {
					plan, err := s.PlanEdit(buf, edited)
					if err != nil {
						return err
					}
					diff, err := unifiedDiff(buf.Text, edited)
					if err != nil {
						return err
					}
					fmt.Fprint(out, diff)
					printPlanSummary(out, plan, "Would apply")
					return nil
				}

				plan, err := s.ApplyEdit(cmd.Context(), buf, edited)
				if err != nil {
					return err
				}
				printPlanSummary(out, plan, "Applied")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Edit every section at once")
	cmd.Flags().StringVar(&from, "from", "", "Read the edited buffer from a file (- for stdin) instead of $EDITOR")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff and the planned changes without saving")
	return cmd
}

func readEditedBuffer(cmd *cobra.Command, original, from string) (string, error) {
	switch from {
	case "":
		return runEditor(cmd, original)
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(from)
		if err != nil {
			return "", fmt.Errorf("read edited buffer: %w", err)
		}
		return string(data), nil
	}
}

func runEditor(cmd *cobra.Command, original string) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errors.New("stdin is not a terminal; pass --from to supply the edited text")
	}
	editor := strings.TrimSpace(os.Getenv("VISUAL"))
	if editor == "" {
		editor = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if editor == "" {
		editor = "vi"
	}

	tmp, err := os.CreateTemp("", "shelf-edit-*.txt")
	if err != nil {
		return "", fmt.Errorf("create edit buffer: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.WriteString(original); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write edit buffer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close edit buffer: %w", err)
	}

	parts := strings.Fields(editor)
	editorCmd := exec.CommandContext(cmd.Context(), parts[0], append(parts[1:], path)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", parts[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edit buffer: %w", err)
	}
	return string(data), nil
}

func unifiedDiff(before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "current",
		ToFile:   "edited",
		Context:  2,
	})
}

func printPlanSummary(out io.Writer, plan reconcile.Plan, verb string) {
	if !plan.Changed() {
		fmt.Fprintln(out, "No changes")
		return
	}
	var created []string
	for _, sp := range plan.Sections {
		if sp.Create {
			created = append(created, sp.Section)
		}
	}
	fmt.Fprintf(out, "%s: %d created, %d renamed, %d deleted\n",
		verb, len(plan.Created()), len(plan.Renamed()), len(plan.Dropped()))
	if len(created) > 0 {
		fmt.Fprintf(out, "New sections: %s\n", strings.Join(created, ", "))
	}
}
