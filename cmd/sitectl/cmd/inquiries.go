package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"beginnings/internal/inquiry"
)

func newInquiriesCmd(opts *options) *cobra.Command {
	inquiries := &cobra.Command{
		Use:   "inquiries",
		Short: "Read contact-form inquiries",
	}

	var (
		limit  int
		asJSON bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recent inquiries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive")
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			pool, err := opts.pool(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			items, err := (&inquiry.PGStore{DB: pool}).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printInquiries(cmd, items, asJSON)
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "number of inquiries to show")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	inquiries.AddCommand(list)
	return inquiries
}

func printInquiries(cmd *cobra.Command, items []inquiry.Inquiry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "RECEIVED\tNAME\tCONTACT\tLOCATION\tPROGRAM\tREF\n")
	for _, in := range items {
		contact := in.Email
		if contact == "" {
			contact = in.Phone
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			in.CreatedAt.Local().Format("2006-01-02 15:04"), in.ParentName, contact, in.Location, in.Program, in.ID)
	}
	return w.Flush()
}
