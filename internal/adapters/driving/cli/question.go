package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

var (
	questionParent   string
	questionMeta     []string
	questionAnswered bool
	syncFromKB       bool
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Manage the question tree",
	Long: `Commands for the question tree: open questions, their follow-ups,
and the suggestion of what to answer next.`,
}

var questionAddCmd = &cobra.Command{
	Use:   "add [question]",
	Short: "Add a question to the tree",
	Long: `Adds an unanswered question to the tree.

With --parent, the question becomes a follow-up of an existing node.
The question is also mirrored into the knowledge base so semantic
queries can find it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuestionAdd,
}

var questionAnswerCmd = &cobra.Command{
	Use:   "answer [node-id] [answer]",
	Short: "Answer a tree question",
	Long: `Sets the answer on a tree node and propagates it to the node's
knowledge base mirror. Re-answering overwrites the previous answer.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuestionAnswer,
}

var questionPriorityCmd = &cobra.Command{
	Use:   "priority [node-id] [priority]",
	Short: "Set a question's suggestion priority",
	Long:  `Sets the explicit suggestion weight of a node. Higher priorities are suggested first; the default is 0.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestionPriority,
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tree questions",
	Long: `Lists unanswered questions breadth-first from the roots.

With --answered, lists answered questions in insertion order instead.`,
	Args: cobra.NoArgs,
	RunE: runQuestionList,
}

var questionSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the next question to answer",
	Long: `Picks the unanswered question to address next: highest priority
first, then shallowest depth, then earliest insertion.`,
	Args: cobra.NoArgs,
	RunE: runQuestionSuggest,
}

var questionSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise tree answers with the knowledge base",
	Long: `Pushes every answered tree node's answer into its knowledge base
mirror. With --from-kb, pulls answers the other way instead: mirrored
records answered in the KB fill in unanswered tree nodes. Tree answers
are never overwritten by a pull.`,
	Args: cobra.NoArgs,
	RunE: runQuestionSync,
}

func init() {
	questionAddCmd.Flags().StringVarP(&questionParent, "parent", "p", "", "parent node id (empty = new root)")
	questionAddCmd.Flags().StringArrayVarP(&questionMeta, "meta", "m", nil, "metadata key=value (repeatable)")
	questionListCmd.Flags().BoolVar(&questionAnswered, "answered", false, "list answered questions instead")
	questionSyncCmd.Flags().BoolVar(&syncFromKB, "from-kb", false, "pull answers from the knowledge base into the tree")

	questionCmd.AddCommand(questionAddCmd)
	questionCmd.AddCommand(questionAnswerCmd)
	questionCmd.AddCommand(questionPriorityCmd)
	questionCmd.AddCommand(questionListCmd)
	questionCmd.AddCommand(questionSuggestCmd)
	questionCmd.AddCommand(questionSyncCmd)
	rootCmd.AddCommand(questionCmd)
}

func runQuestionAdd(cmd *cobra.Command, args []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	meta, err := parseMetaFlags(questionMeta)
	if err != nil {
		return err
	}

	id, err := treeService.AddQuestion(cmd.Context(), args[0], questionParent, meta)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParent) {
			return fmt.Errorf("unknown parent node %q", questionParent)
		}
		return fmt.Errorf("add question failed: %w", err)
	}

	cmd.Printf("Added question: %s\n", id)
	return nil
}

func runQuestionAnswer(cmd *cobra.Command, args []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	if err := treeService.AnswerQuestion(cmd.Context(), args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown node %q", args[0])
		}
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println("Question answered.")
	return nil
}

func runQuestionPriority(cmd *cobra.Command, args []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	var priority int
	if _, err := fmt.Sscanf(args[1], "%d", &priority); err != nil {
		return fmt.Errorf("invalid priority %q: expected an integer", args[1])
	}

	if err := treeService.SetPriority(cmd.Context(), args[0], priority); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown node %q", args[0])
		}
		return fmt.Errorf("set priority failed: %w", err)
	}

	cmd.Printf("Priority set to %d.\n", priority)
	return nil
}

func runQuestionList(cmd *cobra.Command, _ []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	var (
		nodes []domain.TreeNode
		err   error
	)
	if questionAnswered {
		nodes, err = treeService.AnsweredQuestions(cmd.Context())
	} else {
		nodes, err = treeService.UnansweredQuestions(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(nodes) == 0 {
		if questionAnswered {
			cmd.Println("No answered questions.")
		} else {
			cmd.Println("No open questions.")
		}
		return nil
	}

	for i := range nodes {
		printTreeNode(cmd, &nodes[i])
	}
	cmd.Printf("\n%d question(s).\n", len(nodes))
	return nil
}

func runQuestionSuggest(cmd *cobra.Command, _ []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	node, err := treeService.SuggestNext(cmd.Context())
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	if node == nil {
		cmd.Println("Every question is answered.")
		return nil
	}

	printTreeNode(cmd, node)
	return nil
}

func runQuestionSync(cmd *cobra.Command, _ []string) error {
	if treeService == nil {
		return errors.New("tree service not configured")
	}

	if syncFromKB {
		if err := treeService.SyncKBToTree(cmd.Context()); err != nil {
			return fmt.Errorf("sync from knowledge base failed: %w", err)
		}
		cmd.Println("Pulled answers from the knowledge base.")
		return nil
	}

	if err := treeService.SyncTreeToKB(cmd.Context()); err != nil {
		return fmt.Errorf("sync to knowledge base failed: %w", err)
	}
	cmd.Println("Pushed tree answers to the knowledge base.")
	return nil
}

func printTreeNode(cmd *cobra.Command, node *domain.TreeNode) {
	cmd.Printf("  [%s] %s\n", node.ID, node.Question)
	if node.Answer != "" {
		cmd.Printf("      Answer: %s\n", node.Answer)
	}
	if node.Priority != 0 {
		cmd.Printf("      Priority: %d\n", node.Priority)
	}
	if node.ParentID != "" {
		cmd.Printf("      Parent: %s\n", node.ParentID)
	}
}
