package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/PatentBot-AI/pkg/errors"
	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

// NewResultsCmd lists the stored results of a session.
func NewResultsCmd(open BackendOpener) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the stored prior-art results of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID = strings.TrimSpace(sessionID)
			if sessionID == "" {
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

			results, err := backend.Results(ctx, sessionID)
			if err != nil {
				return err
			}
			return writeResults(cmd, cliCtx, results)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "drafting session id (required)")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func writeResults(cmd *cobra.Command, cliCtx *CLIContext, results *dto.ResultsResponse) error {
	if cliCtx.OutputFormat == OutputJSON {
		return printJSON(cmd.OutOrStdout(), results)
	}
	if len(results.Results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored results for session %s.\n", results.SessionID)
		return nil
	}
	view := resultsView{resp: results, verbose: cliCtx.Verbose}
	if cliCtx.OutputFormat == OutputTable {
		FormatTable(cmd.OutOrStdout(), view.TableHeaders(), view.TableRows())
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal results: %d\n", results.Count)
		return nil
	}
	view.writeText(cmd.OutOrStdout())
	return nil
}

type resultsView struct {
	resp    *dto.ResultsResponse
	verbose bool
}

func (v resultsView) TableHeaders() []string {
	return []string{"Rank", "Score", "Semantic", "Keyword", "Reference", "Title", "Published"}
}

func (v resultsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.resp.Results))
	for _, r := range v.resp.Results {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			colorizeScore(r.CombinedScore),
			formatPercent(r.SemanticScore),
			formatPercent(r.KeywordScore),
			truncateString(r.ExternalID, 20),
			truncateString(r.Title, 50),
			r.PublicationDate,
		})
	}
	return rows
}

func (v resultsView) writeText(w io.Writer) {
	bold := color.New(color.Bold)
	for i, r := range v.resp.Results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		bold.Fprintf(w, "#%d  %s\n", r.Rank, r.Title)
		fmt.Fprintf(w, "    score %s (semantic %s, keyword %s)\n",
			colorizeScore(r.CombinedScore), formatPercent(r.SemanticScore), formatPercent(r.KeywordScore))
		if r.ExternalID != "" {
			fmt.Fprintf(w, "    reference  %s\n", r.ExternalID)
		}
		if r.Assignee != "" || r.PublicationDate != "" {
			fmt.Fprintf(w, "    assignee   %s  published %s\n", orDash(r.Assignee), orDash(r.PublicationDate))
		}
		if r.URL != "" {
			fmt.Fprintf(w, "    url        %s\n", r.URL)
		}
		if !v.verbose {
			continue
		}
		if r.Summary != "" {
			fmt.Fprintf(w, "    %s\n", r.Summary)
		}
		for _, c := range r.OverlapClaims {
			fmt.Fprintf(w, "    %s %s\n", color.YellowString("overlap:"), c)
		}
		for _, c := range r.DifferenceClaims {
			fmt.Fprintf(w, "    %s %s\n", color.GreenString("differs:"), c)
		}
	}
	fmt.Fprintf(w, "\nTotal results: %d\n", v.resp.Count)
}

// colorizeScore highlights close references: red means the invention's
// novelty is most at risk.
func colorizeScore(score float64) string {
	s := formatPercent(score)
	switch {
	case score >= 0.8:
		return color.RedString(s)
	case score >= 0.5:
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
