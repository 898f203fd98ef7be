// Package github imports question-answer pairs from GitHub repositories.
//
// Closed issues carrying the configured label (default "q&a") are mapped to
// QA pairs: the issue title becomes the question and the issue body the
// answer, falling back to the first comment when the body is empty.
//
// The importer authenticates via a driven.TokenProvider and throttles
// requests with a dual-strategy rate limiter: a proactive token bucket
// plus reactive backoff driven by GitHub's X-RateLimit-* headers.
package github
