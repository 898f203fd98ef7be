package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addRewordings int
	addMeta       []string
)

var addCmd = &cobra.Command{
	Use:   "add [question] [answer]",
	Short: "Add a question-answer pair to the knowledge base",
	Long: `Adds a question and its answer to the knowledge base.

With --rewordings N, the question is expanded into up to N alternative
phrasings via the configured LLM and every variant is indexed, improving
recall for differently-worded queries. An unanswered question can be added
by passing an empty answer.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().IntVarP(&addRewordings, "rewordings", "r", -1, "number of question rewordings to index (-1 = configured default)")
	addCmd.Flags().StringArrayVarP(&addMeta, "meta", "m", nil, "metadata key=value (repeatable)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	question, answer := args[0], args[1]

	meta, err := parseMetaFlags(addMeta)
	if err != nil {
		return err
	}

	rewordings := addRewordings
	if rewordings < 0 {
		rewordings = defaultRewordings
	}

	variants, err := knowledgeService.AddQA(cmd.Context(), question, answer, meta, rewordings)
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	cmd.Printf("Added question with %d indexed variant(s):\n", len(variants))
	for _, v := range variants {
		cmd.Printf("  - %s\n", v)
	}
	return nil
}
