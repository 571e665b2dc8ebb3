package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hoosiergeo/ingcs-cli/internal/county"
)

var countiesCmd = &cobra.Command{
	Use:   "counties",
	Short: "List the county registry with zones and EPSG codes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("counties"); err != nil {
			return err
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "COUNTY\tZONE\tEPSG\tFIPS\tVERIFIED")
		_, _ = fmt.Fprintln(w, "------\t----\t----\t----\t--------")

		for _, name := range reg.Names() {
			c, _ := reg.Lookup(name)
			verified := "no"
			if c.Verified {
				verified = "yes"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				county.DisplayName(c.Name),
				county.ZoneFor(c.Name),
				c.EPSGCode,
				c.FIPS,
				verified,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		verified, total := reg.VerificationRatio()
		fmt.Fprintf(os.Stderr, "\n%d counties, %d with verified EPSG codes", total, verified)
		if reg.FromFallback {
			fmt.Fprint(os.Stderr, " (embedded defaults)")
		}
		fmt.Fprintln(os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countiesCmd)
}
