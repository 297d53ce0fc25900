package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelf/internal/session"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Edit item tags",
	}

	tagCmd.AddCommand(&cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				added, err := s.AddTag(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintln(cmd.OutOrStdout(), "Tag already present")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %s\n", shortID(id), args[1])
				return nil
			})
		},
	})

	tagCmd.AddCommand(&cobra.Command{
		Use:     "rm <id> <tag>",
		Aliases: []string{"remove"},
		Short:   "Remove a tag",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				removed, err := s.RemoveTag(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintln(cmd.OutOrStdout(), "Tag not present")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], shortID(id))
				return nil
			})
		},
	})

	tagCmd.AddCommand(&cobra.Command{
		Use:   "clear <id>",
		Short: "Remove every tag except the viewed mark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				cleared, err := s.ClearTags(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !cleared {
					fmt.Fprintln(cmd.OutOrStdout(), "No tags to clear")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared tags on %s (undo with `shelf undo`)\n", shortID(id))
				return nil
			})
		},
	})

	tagCmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <from> <to>",
		Short: "Replace one tag with another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				changed, err := s.RenameTag(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to rename")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s on %s\n", args[1], args[2], shortID(id))
				return nil
			})
		},
	})

	return tagCmd
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Count tags in the current section",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				counts := s.TagCounts(s.Prefs().Scope(all))
				out := cmd.OutOrStdout()
				if len(counts) == 0 {
					fmt.Fprintln(out, "No tags")
					return nil
				}
				rows := make([][]string, 0, len(counts))
				for _, tc := range counts {
					rows = append(rows, []string{tc.Tag, strconv.Itoa(tc.Count)})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Tag", "Items"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Count across every section")
	return cmd
}
