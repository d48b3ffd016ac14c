/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/physicistcolloh-png/base43/internal/catalog"
	"github.com/physicistcolloh-png/base43/types"
	"github.com/spf13/cobra"
)

// catalogCmd prints the integration catalog.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Lists the integration catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := cmd.Flags().GetString("tier")
		if err != nil {
			return err
		}

		integrations := catalog.All()
		if tier != "" {
			integrations = catalog.ByTier(types.Tier(tier))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTIER\tSTATUS")
		for _, i := range integrations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", i.ID, i.Name, i.Category, i.RequiresTier, i.Status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().String("tier", "", "only show integrations available to this tier")
}
