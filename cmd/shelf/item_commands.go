package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/library"
	"shelf/internal/session"
	"shelf/internal/view"
)

type listOptions struct {
	section  string
	all      bool
	query    string
	tags     []string
	sort     string
	viewed   bool
	remember bool
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in the current section",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				prefs, err := applyListFlags(cmd, s, opts)
				if err != nil {
					return err
				}
				entries := s.Entries(prefs.Scope(opts.all), prefs.Filter(), prefs.Sort)
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No items")
					return nil
				}
				fmt.Fprintln(out, renderEntries(out, entries, opts.all))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.section, "section", "s", "", "Section to list (defaults to the current section)")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "List every section")
	cmd.Flags().StringVarP(&opts.query, "filter", "f", "", "Case-insensitive text filter")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Only items carrying any of these tags")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort order: manual, alpha, year or date with :asc or :desc")
	cmd.Flags().BoolVar(&opts.viewed, "viewed", false, "Include viewed sections when listing all")
	cmd.Flags().BoolVar(&opts.remember, "remember", false, "Store section, filter and sort as the new defaults")
	return cmd
}

// applyListFlags overlays explicitly set flags on the stored preferences.
func applyListFlags(cmd *cobra.Command, s *session.Session, opts listOptions) (session.Prefs, error) {
	prefs := s.Prefs()
	flags := cmd.Flags()
	if flags.Changed("section") {
		prefs.Section = opts.section
	}
	if flags.Changed("filter") {
		prefs.Query = opts.query
	}
	if flags.Changed("tag") {
		prefs.Tags = opts.tags
	}
	if flags.Changed("viewed") {
		prefs.ShowViewed = opts.viewed
	}
	if flags.Changed("sort") {
		sort, err := view.ParseSort(opts.sort)
		if err != nil {
			return prefs, err
		}
		prefs.Sort = sort
	}
	if !opts.all && !slices.Contains(s.Sections(), prefs.Section) {
		return prefs, fmt.Errorf("%q: %w", prefs.Section, library.ErrSectionNotFound)
	}
	if opts.remember {
		next := prefs
		prefs = s.UpdatePrefs(cmd.Context(), func(p *session.Prefs) { *p = next })
	}
	return prefs, nil
}

func renderEntries(out io.Writer, entries []view.Entry, withSection bool) string {
	headers := []string{"ID", "Title", "Tags", "Rating", "Seen"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	if withSection {
		headers = append([]string{"Section"}, headers...)
		aligns = append([]columnAlignment{alignLeft}, aligns...)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{shortID(e.Item.ID), e.Item.Text, formatTags(e.Item.Tags), formatRating(e.Item), viewedMark(e.Item)}
		if withSection {
			row = append([]string{e.Section}, row...)
		}
		rows = append(rows, row)
	}
	return renderTable(out, headers, rows, aligns)
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var noSearch bool

	cmd := &cobra.Command{
		Use:   "add [section] <text>",
		Short: "Add an item",
		Long:  "Add an item. With a single argument the item goes into the current section.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				section := s.Prefs().Section
				text := strings.Join(args, " ")
				if len(args) > 1 {
					section, text = args[0], strings.Join(args[1:], " ")
				}
				it, err := s.AddItem(cmd.Context(), section, text)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %s %s to %s\n", shortID(it.ID), it.Text, section)
				if noSearch || !s.CatalogEnabled() || it.Text == "" {
					return nil
				}
				return runSearch(cmd, s, it.ID)
			})
		},
	}
	cmd.Flags().BoolVar(&noSearch, "no-search", false, "Skip the catalog lookup")
	return cmd
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var noSearch bool

	cmd := &cobra.Command{
		Use:   "rename <id> <text>",
		Short: "Change an item's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				_, before, err := s.Item(id)
				if err != nil {
					return err
				}
				it, err := s.RenameItem(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", shortID(id), it.Text)
				if noSearch || !s.CatalogEnabled() || before.Text == it.Text {
					return nil
				}
				return runSearch(cmd, s, id)
			})
		},
	}
	cmd.Flags().BoolVar(&noSearch, "no-search", false, "Skip the catalog lookup")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				it, err := s.DeleteItem(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (undo with `shelf undo`)\n", it.Text)
				return nil
			})
		},
	}
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <section>",
		Short: "Move an item to the end of another section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				rec, err := s.MoveItem(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				if rec.FromSection == rec.ToSection {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in %s\n", rec.Item.Text, rec.ToSection)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s from %s to %s\n", rec.Item.Text, rec.FromSection, rec.ToSection)
				return nil
			})
		},
	}
}

func newViewedCommand(ctx *commandContext) *cobra.Command {
	var shelve, unshelve bool

	cmd := &cobra.Command{
		Use:   "viewed <id>",
		Short: "Toggle the viewed mark on an item",
		Long: "Toggle the viewed mark on an item. With --shelve the item moves into the section's " +
			"viewed companion instead; --unshelve moves it back.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shelve && unshelve {
				return fmt.Errorf("--shelve and --unshelve are mutually exclusive")
			}
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				out := cmd.OutOrStdout()
				switch {
				case shelve:
					rec, err := s.MarkViewed(cmd.Context(), id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Moved %s to %s\n", rec.Item.Text, library.BaseSectionName(rec.ToSection)+" (viewed)")
				case unshelve:
					rec, err := s.ReturnFromViewed(cmd.Context(), id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Moved %s back to %s\n", rec.Item.Text, rec.ToSection)
				default:
					viewed, err := s.ToggleViewed(cmd.Context(), id)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Viewed: %s\n", yesNo(viewed))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&shelve, "shelve", false, "Move the item into the viewed section")
	cmd.Flags().BoolVar(&unshelve, "unshelve", false, "Move the item out of the viewed section")
	return cmd
}
