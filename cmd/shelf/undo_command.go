package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shelf/internal/session"
	"shelf/internal/undo"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var peek bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the last delete, move, tag removal or viewed toggle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				out := cmd.OutOrStdout()
				if peek {
					entry, ok := s.UndoPending()
					if !ok {
						fmt.Fprintln(out, "Nothing to undo")
						return nil
					}
					fmt.Fprintf(out, "Can undo: %s\n", entry.Describe())
					return nil
				}
				entry, ok := s.UndoPending()
				outcome, err := s.Undo(cmd.Context())
				if errors.Is(err, undo.ErrNothingToUndo) {
					fmt.Fprintln(out, "Nothing to undo")
					return nil
				}
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(out, "Undid %s\n", entry.Describe())
				}
				if outcome.Kind == undo.KindDeleteSection {
					fmt.Fprintf(out, "Restored section %s\n", outcome.Section)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&peek, "peek", false, "Show what would be undone without changing anything")
	return cmd
}
