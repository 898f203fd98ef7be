package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for qastore resources.
	uriScheme = "qastore://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing every indexed question variant.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "questions",
		Name:        "questions",
		Description: "All indexed question variants in the knowledge base",
		MIMEType:    "application/json",
	}, s.handleQuestionsResource)

	// Static resource listing one entry per logical record.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "records",
		Name:        "records",
		Description: "All knowledge base records with their answers and metadata",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	if s.ports.Tree != nil {
		// Static resource listing open questions in the tree.
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "tree/open",
			Name:        "open-questions",
			Description: "Unanswered questions from the question tree",
			MIMEType:    "application/json",
		}, s.handleOpenQuestionsResource)

		// Template for a single tree node.
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "tree/nodes/{nodeId}",
			Name:        "tree-node",
			Description: "A single question-tree node with its answer and children",
			MIMEType:    "application/json",
		}, s.handleTreeNodeResource)
	}
}

// handleQuestionsResource returns every indexed question variant.
func (s *Server) handleQuestionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	questions, err := s.ports.Knowledge.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling questions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRecordsResource returns one entry per logical record.
func (s *Server) handleRecordsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Knowledge.Records(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	type recordInfo struct {
		ID       string            `json:"id"`
		Question string            `json:"question"`
		Answer   string            `json:"answer,omitempty"`
		Metadata map[string]string `json:"metadata,omitempty"`
	}

	infos := make([]recordInfo, len(records))
	for i, r := range records {
		infos[i] = recordInfo{
			ID:       r.RecordID,
			Question: r.Question,
			Answer:   r.Answer,
			Metadata: metaToMap(r.Metadata),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleOpenQuestionsResource returns the unanswered tree nodes.
func (s *Server) handleOpenQuestionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tree == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	nodes, err := s.ports.Tree.UnansweredQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing open questions: %w", err)
	}

	type nodeInfo struct {
		ID       string `json:"id"`
		Question string `json:"question"`
		ParentID string `json:"parent_id,omitempty"`
		Priority int    `json:"priority,omitempty"`
	}

	infos := make([]nodeInfo, len(nodes))
	for i := range nodes {
		infos[i] = nodeInfo{
			ID:       nodes[i].ID,
			Question: nodes[i].Question,
			ParentID: nodes[i].ParentID,
			Priority: nodes[i].Priority,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling open questions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTreeNodeResource returns a single tree node by id.
func (s *Server) handleTreeNodeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tree == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	nodeID := extractNodeID(req.Params.URI)
	if nodeID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	node, err := s.ports.Tree.Get(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("getting tree node: %w", err)
	}

	type nodeDetail struct {
		ID       string   `json:"id"`
		Question string   `json:"question"`
		Answer   string   `json:"answer,omitempty"`
		ParentID string   `json:"parent_id,omitempty"`
		Children []string `json:"children,omitempty"`
		Priority int      `json:"priority,omitempty"`
	}

	data, err := json.MarshalIndent(nodeDetail{
		ID:       node.ID,
		Question: node.Question,
		Answer:   node.Answer,
		ParentID: node.ParentID,
		Children: node.Children,
		Priority: node.Priority,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tree node: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractNodeID extracts the node ID from a URI like qastore://tree/nodes/{nodeId}.
func extractNodeID(uri string) string {
	const prefix = uriScheme + "tree/nodes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
