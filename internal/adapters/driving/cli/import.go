package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	githubimporter "github.com/custodia-labs/qastore-cli/internal/adapters/driven/importer/github"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

var (
	importLabel      string
	importToken      string
	importRewordings int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import QA pairs from external sources",
}

var importGitHubCmd = &cobra.Command{
	Use:   "github [owner/repo]",
	Short: "Import QA pairs from labelled GitHub issues",
	Long: `Imports closed issues carrying the QA label (default "q&a") from a
GitHub repository. Each issue becomes a QA pair: the title is the
question, the body (or the first comment when the body is empty) is
the answer. Provenance metadata (repo, issue number, url) is stored
with every pair.

Authentication uses --token, or the github.token config key when the
flag is not given. Public repositories work without a token, subject
to much stricter rate limits.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportGitHub,
}

func init() {
	importGitHubCmd.Flags().StringVarP(&importLabel, "label", "l", "", "issue label marking QA issues (default \"q&a\")")
	importGitHubCmd.Flags().StringVarP(&importToken, "token", "t", "", "GitHub access token (overrides config)")
	importGitHubCmd.Flags().IntVarP(&importRewordings, "rewordings", "r", -1, "rewordings per imported question (-1 = configured default)")
	importCmd.AddCommand(importGitHubCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportGitHub(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	tokens := githubToken
	if importToken != "" {
		// An explicit token overrides the configured credentials.
		tokens = driven.StaticTokenProvider{Token: importToken}
	} else if tokens == nil {
		tokens = driven.StaticTokenProvider{}
	}

	importer := githubimporter.NewImporter(tokens, importLabel)

	imported, err := importer.ImportQA(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if len(imported) == 0 {
		cmd.Println("No QA issues found.")
		return nil
	}

	rewordings := importRewordings
	if rewordings < 0 {
		rewordings = defaultRewordings
	}

	indexed := 0
	for _, qa := range imported {
		_, addErr := knowledgeService.AddQA(cmd.Context(), qa.Pair.Question, qa.Pair.Answer, qa.Metadata, rewordings)
		if addErr != nil {
			return fmt.Errorf("index %q: %w", qa.Pair.Question, addErr)
		}
		indexed++
		cmd.Printf("  + %s\n", qa.Pair.Question)
	}

	cmd.Printf("\nImported %d QA pair(s) from %s.\n", indexed, args[0])
	return nil
}
