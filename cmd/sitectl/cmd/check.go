package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"beginnings/internal/app"
	"beginnings/internal/render"
	"beginnings/internal/site"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the site datasets and report what each location will show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log := opts.logger(cmd.ErrOrStderr(), cfg)

			store, err := app.NewStore(cfg, log)
			if err != nil {
				return err
			}
			if err := store.Reload(cmd.Context()); err != nil {
				return err
			}
			builder, err := app.NewBuilder(cfg, log)
			if err != nil {
				return err
			}
			sc := store.Current()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "LOCATION\tBUCKET\tPROGRAMS\tSTATUS\n")
			sc.Config.Locations.Each(func(key string, _ site.Location) {
				res := sc.OpeningsFor(key)
				_, out, err := builder.Widgets.BadgesFragment(sc, key)
				status := string(out.Status)
				if err != nil {
					status = string(render.StatusFailed)
				}
				bucket := res.Bucket
				if bucket == "" {
					bucket = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", key, bucket, out.Rows, status)
			})
			if err := w.Flush(); err != nil {
				return err
			}
			if unmapped := sc.Unmapped(); len(unmapped) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "unmapped locations: %s\n", strings.Join(unmapped, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "last updated: %s\n", sc.Openings.LastUpdated)
			return nil
		},
	}
}
