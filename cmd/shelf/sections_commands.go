package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"shelf/internal/library"
	"shelf/internal/session"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	sectionsCmd := &cobra.Command{
		Use:   "sections",
		Short: "List and manage sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				current := s.Prefs().Section
				var rows [][]string
				for _, sum := range s.SectionSummaries() {
					mark := ""
					if sum.Name == current {
						mark = "*"
					}
					rows = append(rows, []string{mark, sum.Name, strconv.Itoa(sum.Items)})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []string{"", "Section", "Items"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}

	sectionsCmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				if err := s.AddSection(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added section %s\n", args[0])
				return nil
			})
		},
	})

	sectionsCmd.AddCommand(&cobra.Command{
		Use:   "rename <from> <to>",
		Short: "Rename a section, merging into an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				merged, err := s.RenameSection(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if merged {
					fmt.Fprintf(cmd.OutOrStdout(), "Merged %s into %s\n", args[0], args[1])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
				}
				return nil
			})
		},
	})

	sectionsCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a section and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				if err := s.DeleteSection(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %s (undo with `shelf undo`)\n", args[0])
				return nil
			})
		},
	})

	sectionsCmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Make a section the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				if !slices.Contains(s.Sections(), args[0]) {
					return fmt.Errorf("%q: %w", args[0], library.ErrSectionNotFound)
				}
				prefs := s.UpdatePrefs(cmd.Context(), func(p *session.Prefs) { p.Section = args[0] })
				fmt.Fprintf(cmd.OutOrStdout(), "Current section: %s\n", prefs.Section)
				return nil
			})
		},
	})

	return sectionsCmd
}
