package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"records-search/internal/common/config"
	jurisdictionfilter "records-search/internal/search/jurisdiction-filter"

	"github.com/spf13/cobra"
)

func newJurisdictionsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdictions",
		Short: "List the counties a search can be narrowed to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL")
			for _, opt := range jurisdictionfilter.Load(a.catalog).View() {
				fmt.Fprintf(w, "%d\t%s\n", opt.ID, opt.Label)
			}
			return w.Flush()
		},
	}
}

func newRunScriptCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run-script",
		Short: "Trigger the engine's post-search script",
		Long: `run-script sends the configured script command (engine.script_command) to the
resolution engine with an empty payload. It is independent of any search session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), config.GetDuration(a.cfg.Engine.Timeout))
			defer cancel()

			resp, err := a.bridge.Trigger(ctx, a.cfg.Engine.ScriptCommand)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}
