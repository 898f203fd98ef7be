package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

var (
	ingestWatch      string
	ingestRewordings int
	ingestMeta       []string
	ingestDryRun     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Generate QA pairs from text and index them",
	Long: `Reads text files (or stdin when no file is given), asks the configured
LLM to extract question-answer pairs from each, and indexes every pair.

With --dry-run, the generated pairs are printed without being indexed.
With --watch DIR, no files are read; instead the directory is watched
and every new or modified .txt/.md file is ingested until interrupted.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestWatch, "watch", "w", "", "watch a directory instead of reading files")
	ingestCmd.Flags().IntVarP(&ingestRewordings, "rewordings", "r", -1, "rewordings per generated question (-1 = configured default)")
	ingestCmd.Flags().StringArrayVarP(&ingestMeta, "meta", "m", nil, "metadata key=value attached to every pair (repeatable)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "print generated pairs without indexing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	meta, err := parseMetaFlags(ingestMeta)
	if err != nil {
		return err
	}

	if ingestWatch != "" {
		if len(args) > 0 {
			return errors.New("--watch cannot be combined with file arguments")
		}
		cmd.Printf("Watching %s for text files (Ctrl-C to stop)...\n", ingestWatch)
		err := ingestService.WatchDirectory(cmd.Context(), ingestWatch, meta)
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	}

	rewordings := ingestRewordings
	if rewordings < 0 {
		rewordings = defaultRewordings
	}

	if len(args) == 0 {
		text, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		return ingestOne(cmd, string(text), meta, rewordings)
	}

	for _, path := range args {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}

		fileMeta := meta.Clone()
		fileMeta["source_file"] = filepath.Base(path)

		cmd.Printf("%s:\n", path)
		if err := ingestOne(cmd, string(data), fileMeta, rewordings); err != nil {
			return err
		}
	}
	return nil
}

func ingestOne(cmd *cobra.Command, text string, meta domain.Metadata, rewordings int) error {
	if ingestDryRun {
		pairs, err := ingestService.GenerateQAPairs(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("generate failed: %w", err)
		}
		printPairs(cmd, pairs)
		return nil
	}

	pairs, err := ingestService.IngestText(cmd.Context(), text, meta, rewordings)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printPairs(cmd, pairs)
	return nil
}

func printPairs(cmd *cobra.Command, pairs []domain.QAPair) {
	for i, p := range pairs {
		cmd.Printf("  [%d] Q: %s\n", i+1, p.Question)
		cmd.Printf("      A: %s\n", p.Answer)
	}
	cmd.Printf("%d pair(s).\n", len(pairs))
}
