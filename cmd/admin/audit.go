package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"promptly/internal/repository"

	"github.com/spf13/cobra"
)

var errDrift = errors.New("counter drift detected")

func newAuditCmd(open opener) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare maintained counters with their relations (read-only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.close()

			drift, err := repository.NewInteractionRepository(s.db).FindCounterDrift(cmd.Context())
			if err != nil {
				return fmt.Errorf("audit: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if drift == nil {
					drift = []repository.CounterDrift{}
				}
				if err := enc.Encode(drift); err != nil {
					return err
				}
			} else if len(drift) == 0 {
				fmt.Fprintln(out, "all counters match their relations")
			} else {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TABLE\tID\tCOLUMN\tSTORED\tEXPECTED")
				for _, d := range drift {
					fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\n", d.Table, d.ID, d.Column, d.Stored, d.Expected)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if len(drift) > 0 {
				return fmt.Errorf("%w: %d counter(s)", errDrift, len(drift))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print drift as JSON")
	return cmd
}
