package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

type searchOptions struct {
	sessionID   string
	query       string
	patentType  string
	showResults bool
}

// NewSearchCmd runs a prior-art search for one drafting session.
func NewSearchCmd(open BackendOpener) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a prior-art search for a drafting session",
		Long: "Builds the search context from the session's idea, analysis and answers,\n" +
			"retrieves candidate references, scores them and replaces the session's\n" +
			"stored results.",
		Example: `  patentbot search --session 7f3c... --query "foldable hinge" --patent-type utility
  patentbot search --session 7f3c... --server http://localhost:8080 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, open, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sessionID, "session", "s", "", "drafting session id (required)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "extra search terms")
	cmd.Flags().StringVar(&opts.patentType, "patent-type", "", "patent type hint, e.g. utility or design")
	cmd.Flags().BoolVar(&opts.showResults, "show-results", false, "list the stored results after the search")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func runSearch(cmd *cobra.Command, open BackendOpener, opts *searchOptions) error {
	req := &dto.SearchRequest{
		SessionID:   strings.TrimSpace(opts.sessionID),
		SearchQuery: strings.TrimSpace(opts.query),
		PatentType:  strings.TrimSpace(opts.patentType),
	}
	if !req.Validate() {
		return errors.InvalidParam(dto.ErrSessionIDRequired)
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	backend, err := open(cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	cliCtx.Logger.Info("Starting prior-art search",
		logging.SessionID(req.SessionID),
		logging.String("query", req.SearchQuery),
		logging.String("patent_type", req.PatentType))

	resp, err := backend.Search(ctx, req)
	if err != nil {
		code := errors.GetCode(err)
		if code == errors.CodeUnknown {
			code = errors.ErrCodeExternalService
		}
		return errors.Wrap(err, code, "prior-art search failed")
	}

	if cliCtx.OutputFormat == OutputJSON {
		if !opts.showResults {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		results, err := backend.Results(ctx, req.SessionID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			*dto.SearchResponse
			Results []dto.ResultDTO `json:"results"`
		}{resp, results.Results})
	}

	if resp.ResultsFound == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(resp.Message))
		return nil
	}
	PrintSuccess(cmd, resp.Message)

	if !opts.showResults {
		fmt.Fprintf(cmd.OutOrStdout(), "Run `patentbot results --session %s` to list them.\n", req.SessionID)
		return nil
	}
	results, err := backend.Results(ctx, req.SessionID)
	if err != nil {
		return err
	}
	return writeResults(cmd, cliCtx, results)
}
