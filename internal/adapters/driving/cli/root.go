package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging to stderr.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "qastore",
	Short: "Semantic question-answer knowledge base",
	Long: `qastore is a question-answer knowledge base with semantic retrieval.

Questions are indexed as embedding vectors; queries are optionally expanded
into LLM-generated rewordings and matched by cosine similarity, so a question
phrased differently still finds its answer.

A question tree tracks what remains unanswered and suggests what to ask next.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles everything the commands depend on.
// Fields left nil disable the commands that need them.
type Services struct {
	Knowledge driving.KnowledgeService
	Tree      driving.TreeService
	Ingest    driving.IngestService
	Settings  driving.SettingsService

	// GitHubToken supplies credentials for the GitHub importer.
	GitHubToken driven.TokenProvider

	// DefaultRewordings is used when a command's --rewordings flag
	// is not given.
	DefaultRewordings int
}

// Package-level service handles, injected by SetServices.
var (
	knowledgeService  driving.KnowledgeService
	treeService       driving.TreeService
	ingestService     driving.IngestService
	settingsService   driving.SettingsService
	githubToken       driven.TokenProvider
	defaultRewordings int
)

// SetServices injects the service implementations used by the commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	knowledgeService = s.Knowledge
	treeService = s.Tree
	ingestService = s.Ingest
	settingsService = s.Settings
	githubToken = s.GitHubToken
	defaultRewordings = s.DefaultRewordings
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}
