package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record from the knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if !clearForce {
		cmd.Print("This deletes every record in the knowledge base. Continue? [y/N]: ")
		var input string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &input)
		if !strings.EqualFold(strings.TrimSpace(input), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := knowledgeService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Println("Knowledge base cleared.")
	return nil
}
