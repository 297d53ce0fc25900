package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/session"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or reset the stored browsing defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session.Session) error {
				prefs := s.Prefs()
				if reset {
					prefs = s.UpdatePrefs(cmd.Context(), func(p *session.Prefs) {
						*p = session.Prefs{Section: p.Section, Sort: session.DefaultPrefs().Sort}
					})
				}
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Section", prefs.Section},
					{"Sort", prefs.Sort.String()},
					{"Filter", prefs.Query},
					{"Tags", strings.Join(prefs.Tags, ", ")},
					{"Show viewed", yesNo(prefs.ShowViewed)},
					{"Catalog", yesNo(s.CatalogEnabled())},
				}
				fmt.Fprintln(out, renderTable(out, []string{"Setting", "Value"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear filter, tags and sort")
	return cmd
}
