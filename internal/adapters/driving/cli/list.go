package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listRecords bool
	listMeta    []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed questions",
	Long: `Lists every indexed question variant in insertion order.

With --records, lists one line per logical record instead (variants
collapsed), optionally restricted by a metadata filter.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listRecords, "records", false, "list logical records instead of question variants")
	listCmd.Flags().StringArrayVarP(&listMeta, "meta", "m", nil, "exact-match metadata filter key=value (records only)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if listRecords {
		return runListRecords(cmd)
	}

	questions, err := knowledgeService.Questions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(questions) == 0 {
		cmd.Println("Knowledge base is empty.")
		return nil
	}

	for _, q := range questions {
		cmd.Printf("  %s\n", q)
	}
	cmd.Printf("\n%d question variant(s).\n", len(questions))
	return nil
}

func runListRecords(cmd *cobra.Command) error {
	filter, err := parseMetaFlags(listMeta)
	if err != nil {
		return err
	}

	records, err := knowledgeService.Records(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No matching records.")
		return nil
	}

	for i := range records {
		answered := "answered"
		if records[i].Answer == "" {
			answered = "unanswered"
		}
		cmd.Printf("  [%s] %s (%s)\n", records[i].RecordID, records[i].Question, answered)
		if m := formatMeta(records[i].Metadata); m != "" {
			cmd.Printf("      Meta: %s\n", m)
		}
	}
	cmd.Printf("\n%d record(s).\n", len(records))
	return nil
}
