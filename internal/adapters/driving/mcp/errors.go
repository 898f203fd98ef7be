// Package mcp provides an MCP (Model Context Protocol) server adapter for qastore.
// It lets AI assistants like Claude query the knowledge base, add QA pairs and
// work through the open questions of the question tree.
package mcp

import "errors"

// ErrMissingKnowledgeService is returned when the knowledge service is not provided.
var ErrMissingKnowledgeService = errors.New("mcp: knowledge service is required")

// ErrTreeUnavailable is returned by tree tools when no tree service is configured.
var ErrTreeUnavailable = errors.New("mcp: tree service is not configured")

// ErrIngestUnavailable is returned by the ingest tool when no ingest service is configured.
var ErrIngestUnavailable = errors.New("mcp: ingest service is not configured")
