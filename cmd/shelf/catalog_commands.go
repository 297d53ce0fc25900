package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/enrich"
	"shelf/internal/pending"
	"shelf/internal/session"
)

func newCatalogCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newPendingCommand(ctx),
		newSearchCommand(ctx),
		newPickCommand(ctx),
		newDismissCommand(ctx),
		newFetchCommand(ctx),
	}
}

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List items waiting for a catalog match",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				if resume {
					if err := s.ResumePending(cmd.Context()); err != nil {
						return err
					}
				}
				items := s.Pending(cmd.Context())
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Nothing pending")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, p := range items {
					rows = append(rows, []string{
						shortID(p.ID),
						p.Section,
						p.Text,
						describeState(p.State),
						strconv.Itoa(len(p.Candidates)),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Section", "Title", "State", "Choices"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, "Re-run searches that never completed")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Search the catalog for an item and show the candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				return runSearch(cmd, s, id)
			})
		},
	}
}

func runSearch(cmd *cobra.Command, s *session.Session, id string) error {
	result, err := s.Search(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case result.Stale:
		fmt.Fprintln(out, "Search superseded by a newer one")
	case result.Failed:
		fmt.Fprintln(out, "Catalog search failed; see the log for details")
	case len(result.Candidates) == 0:
		fmt.Fprintln(out, "No catalog matches")
	default:
		printCandidates(out, result.Candidates)
		fmt.Fprintf(out, "Apply one with `shelf pick %s <n>` or skip with `shelf dismiss %s`\n", shortID(id), shortID(id))
	}
	return nil
}

func printCandidates(out io.Writer, candidates []enrich.Candidate) {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rating := ""
		if c.VoteCount > 0 {
			rating = fmt.Sprintf("%.1f", c.Rating)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.DisplayTitle(),
			string(c.MediaType),
			rating,
			truncate(c.Overview, 60),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "Title", "Type", "Rating", "Overview"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
}

func newPickCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pick <id> <n>",
		Short: "Apply candidate n to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("candidate number must be a positive integer, got %q", args[1])
			}
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				it, err := s.Pick(cmd.Context(), id, n-1)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", it.Text)
				return nil
			})
		},
	}
}

func newDismissCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Stop looking up an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				s.Dismiss(cmd.Context(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", shortID(id))
				return nil
			})
		},
	}
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Look up an item and apply the match when it is unambiguous",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withItem(cmd, args[0], func(s *session.Session, id string) error {
				result, applied, err := s.Fetch(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case applied != nil:
					fmt.Fprintf(out, "Applied %s\n", applied.Text)
				case result.Failed:
					fmt.Fprintln(out, "Catalog search failed; see the log for details")
				case len(result.Candidates) == 0:
					fmt.Fprintln(out, "No catalog matches")
				default:
					printCandidates(out, result.Candidates)
				}
				return nil
			})
		},
	}
}

func describeState(state pending.State) string {
	switch state {
	case pending.PendingSearch:
		return "searching"
	case pending.PendingChoice:
		return "choose"
	default:
		return "clean"
	}
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
