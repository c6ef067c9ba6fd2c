package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"beginnings/internal/app"
	"beginnings/resources"
)

func newBuildCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page with its widgets into a static directory",
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
			n, err := builder.WriteAll(sc, out, log)
			if err != nil {
				return err
			}
			if err := resources.CopyTo(filepath.Join(out, "static")); err != nil {
				return fmt.Errorf("copy static files: %w", err)
			}
			ld, err := json.MarshalIndent(builder.Widgets.LocationDocuments(sc), "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(out, "structured-data.json"), ld, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages into %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dist", "output directory")
	return cmd
}
