package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"records-search/internal/common/config"
	"records-search/internal/common/errors"
	"records-search/internal/models"
	resolutionbridge "records-search/internal/search/resolution-bridge"
	searchsession "records-search/internal/search/search-session"
	spreadsheetreader "records-search/internal/search/spreadsheet-reader"

	"github.com/spf13/cobra"
)

// searchFlags are the options common to individual and batch searches.
type searchFlags struct {
	jurisdictions []string
	retries       int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.jurisdictions, "jurisdiction", "j", nil, "County to search, by label (repeatable; default: all)")
	cmd.Flags().IntVar(&f.retries, "retries", 0, "Resubmit up to N times after a retryable engine failure")
}

func newIndividualCmd(opts *cliOptions) *cobra.Command {
	flags := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "individual <name>",
		Short: "Search for one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSearch(cmd.Context(), a, models.SearchModeIndividual, args[0], flags, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

func newBatchCmd(opts *cliOptions) *cobra.Command {
	flags := &searchFlags{}
	var file string
	cmd := &cobra.Command{
		Use:   "batch --file <spreadsheet.xlsx>",
		Short: "Search for every name in the first column of a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("no spreadsheet given: pass --file <path>")
			}
			cells, err := readFirstColumn(file)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return runSearch(cmd.Context(), a, models.SearchModeBatch, cells, flags, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Spreadsheet whose first column lists the names")
	flags.register(cmd)
	return cmd
}

func readFirstColumn(path string) ([]interface{}, error) {
	wb, err := spreadsheetreader.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.FirstColumn()
}

// searchResult is what a search prints on stdout.
type searchResult struct {
	SessionID     string                `json:"sessionId"`
	Mode          models.SearchMode     `json:"mode"`
	Terms         int                   `json:"terms"`
	Jurisdictions []int                 `json:"jurisdictions"`
	Attempts      int                   `json:"attempts"`
	Step          searchsession.Step    `json:"step"`
	Ack           json.RawMessage       `json:"ack,omitempty"`
	Error         *errors.StandardError `json:"error,omitempty"`
}

// runSearch drives one session: mode, input, jurisdictions, then submission
// with up to flags.retries operator-authorized resubmissions.
func runSearch(ctx context.Context, a *app, mode models.SearchMode, raw interface{}, flags *searchFlags, out io.Writer) error {
	s := searchsession.New(a.catalog, a.bridge, a.log, searchsession.WithRecorder(a.recorder))
	stop := context.AfterFunc(ctx, s.Abandon)
	defer stop()

	if err := s.ChooseMode(mode); err != nil {
		return err
	}
	if err := s.CaptureInput(raw); err != nil {
		return err
	}
	if err := selectJurisdictions(a, s, flags.jurisdictions); err != nil {
		return err
	}

	resp, err := submit(ctx, a, s)
	for attempt := 1; err != nil && attempt <= flags.retries && retryable(s, err); attempt++ {
		a.log.Info("Resubmitting search", map[string]interface{}{
			"sessionId": s.ID(),
			"retry":     attempt,
			"code":      errors.CodeOf(err),
		})
		resp, err = submit(ctx, a, s)
	}

	snap := s.Snapshot()
	result := searchResult{
		SessionID:     snap.ID,
		Mode:          snap.Request.Mode,
		Terms:         len(snap.Request.Terms),
		Jurisdictions: snap.Request.Jurisdictions,
		Attempts:      snap.Attempts,
		Step:          snap.Step,
	}
	if resp != nil {
		result.Ack = resp.Ack
	}
	if err != nil {
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			result.Error = stdErr
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	return err
}

func submit(ctx context.Context, a *app, s *searchsession.Session) (*resolutionbridge.EngineResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(a.cfg.Engine.Timeout))
	defer cancel()
	return s.Submit(ctx)
}

func retryable(s *searchsession.Session, err error) bool {
	return s.Step() == searchsession.StepFailed && errors.IsRetryableErrorCode(errors.CodeOf(err))
}

// selectJurisdictions toggles each named county once. Unknown labels are
// reported and skipped.
func selectJurisdictions(a *app, s *searchsession.Session, labels []string) error {
	seen := make(map[int]bool, len(labels))
	for _, label := range labels {
		id, ok := s.LookupJurisdiction(label)
		if !ok {
			a.log.Warn("Unknown jurisdiction ignored", map[string]interface{}{"label": label})
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.ToggleJurisdiction(id); err != nil {
			return err
		}
	}
	return nil
}
