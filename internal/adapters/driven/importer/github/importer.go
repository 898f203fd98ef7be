package github

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

// DefaultLabel is the issue label that marks an issue as a QA pair.
const DefaultLabel = "q&a"

// Ensure Importer implements the interface.
var _ driven.QAImporter = (*Importer)(nil)

// Importer pulls QA pairs from closed, labelled GitHub issues.
type Importer struct {
	client *Client
	label  string
}

// NewImporter creates a GitHub QA importer using the given token provider.
// If label is empty, DefaultLabel is used.
func NewImporter(tokenProvider driven.TokenProvider, label string) *Importer {
	if label == "" {
		label = DefaultLabel
	}
	return &Importer{
		client: NewClient(tokenProvider),
		label:  label,
	}
}

// NewImporterWithClient creates an importer around an existing client.
func NewImporterWithClient(client *Client, label string) *Importer {
	if label == "" {
		label = DefaultLabel
	}
	return &Importer{client: client, label: label}
}

// ImportQA fetches all closed issues labelled as QA pairs from the
// repository named by source ("owner/repo") and maps each to a pair.
// Issues with no usable answer text are skipped.
func (i *Importer) ImportQA(ctx context.Context, source string) ([]driven.ImportedQA, error) {
	owner, repo, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	logger.Info("Importing QA issues from %s/%s (label %q)", owner, repo, i.label)

	issues, err := i.client.ListClosedIssues(ctx, owner, repo, []string{i.label})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, source)
		}
		return nil, err
	}

	imported := make([]driven.ImportedQA, 0, len(issues))
	for _, issue := range issues {
		// Pull requests share the issues endpoint.
		if issue.IsPullRequest() {
			continue
		}

		var fallback string
		if strings.TrimSpace(issue.GetBody()) == "" {
			// Fall back to the first comment as the answer.
			comment, commErr := i.client.FirstComment(ctx, owner, repo, issue.GetNumber())
			if commErr != nil {
				logger.Warn("Skipping issue #%d: %v", issue.GetNumber(), commErr)
				continue
			}
			fallback = comment
		}

		qa, ok := issueToQA(owner, repo, issue, fallback)
		if !ok {
			logger.Debug("Skipping issue #%d: no question or answer text", issue.GetNumber())
			continue
		}
		imported = append(imported, qa)
	}

	logger.Info("Imported %d QA pairs from %d issues", len(imported), len(issues))
	return imported, nil
}

// ParseSource splits an "owner/repo" reference.
func ParseSource(source string) (owner, repo string, err error) {
	source = strings.TrimSpace(source)
	source = strings.TrimPrefix(source, "https://github.com/")
	source = strings.TrimPrefix(source, "github.com/")
	source = strings.TrimSuffix(source, "/")

	parts := strings.Split(source, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}
	return parts[0], parts[1], nil
}

// issueToQA maps a single issue to an imported pair. Returns false when
// the issue has no usable question or answer text.
func issueToQA(owner, repo string, issue *gh.Issue, fallbackAnswer string) (driven.ImportedQA, bool) {
	question := strings.TrimSpace(issue.GetTitle())
	answer := strings.TrimSpace(issue.GetBody())
	if answer == "" {
		answer = strings.TrimSpace(fallbackAnswer)
	}
	if question == "" || answer == "" {
		return driven.ImportedQA{}, false
	}

	return driven.ImportedQA{
		Pair: domain.QAPair{Question: question, Answer: answer},
		Metadata: domain.Metadata{
			"source": "github",
			"repo":   owner + "/" + repo,
			"issue":  issue.GetNumber(),
			"url":    issue.GetHTMLURL(),
		},
	}, true
}
