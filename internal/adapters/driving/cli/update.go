package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

var updateByQuestion bool

var updateCmd = &cobra.Command{
	Use:   "update [record-id] [answer]",
	Short: "Update the answer of an indexed question",
	Long: `Replaces the answer on every indexed variant of a record.

The first argument is the record id shown by 'qastore query'. With
--by-question, it is treated as the exact question text instead; the
match must be exact, near matches are never updated.`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&updateByQuestion, "by-question", "q", false, "look up the record by exact question text instead of id")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	key, answer := args[0], args[1]

	var err error
	if updateByQuestion {
		err = knowledgeService.UpdateAnswer(cmd.Context(), key, answer)
	} else {
		err = knowledgeService.UpdateAnswerByID(cmd.Context(), key, answer)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no record matches %q", key)
		}
		return fmt.Errorf("update failed: %w", err)
	}

	cmd.Println("Answer updated.")
	return nil
}
