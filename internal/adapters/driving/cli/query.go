package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

var (
	queryLimit      int
	queryRewordings int
	queryJSON       bool
	queryMeta       []string
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Query the knowledge base",
	Long: `Retrieves the best-matching answers for a question.

The question is embedded and matched against every indexed variant by
cosine similarity. With --rewordings N, the question is first expanded
into up to N alternative phrasings and all variants are queried; results
are merged, deduplicated per record and ranked by similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultNResults, "maximum number of results")
	queryCmd.Flags().IntVarP(&queryRewordings, "rewordings", "r", -1, "number of query rewordings (-1 = configured default)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().StringArrayVarP(&queryMeta, "meta", "m", nil, "exact-match metadata filter key=value (repeatable)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	filter, err := parseMetaFlags(queryMeta)
	if err != nil {
		return err
	}

	rewordings := queryRewordings
	if rewordings < 0 {
		rewordings = defaultRewordings
	}

	opts := domain.QueryOptions{
		NResults:       queryLimit,
		MetadataFilter: filter,
		NumRewordings:  rewordings,
	}

	results, err := knowledgeService.Query(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results)
}

func outputResultsJSON(cmd *cobra.Command, results []domain.QAResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.QAResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].Question, results[i].Similarity)
		if results[i].Answer != "" {
			cmd.Printf("      %s\n", results[i].Answer)
		} else {
			cmd.Printf("      (unanswered)\n")
		}
		cmd.Printf("      ID: %s\n", results[i].RecordID)
		if m := formatMeta(results[i].Metadata); m != "" {
			cmd.Printf("      Meta: %s\n", m)
		}
		cmd.Println()
	}

	return nil
}
