package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt(t *testing.T) {
	pb := NewPromptBuilder("default")

	got := pb.BuildSystemPrompt("Backend engineer, Go and Postgres", "")

	assert.Contains(t, got, "resume summarization agent")
	assert.True(t, strings.HasSuffix(got, "Here is the job description: Backend engineer, Go and Postgres\n"))
	assert.NotContains(t, got, "HIRING GUIDELINES")
}

func TestBuildSystemPrompt_WithGuidelines(t *testing.T) {
	pb := NewPromptBuilder("default")

	got := pb.BuildSystemPrompt("Backend engineer", "Prefer shipped production systems.")

	assert.Contains(t, got, "HIRING GUIDELINES:\nPrefer shipped production systems.")
	assert.Less(t, strings.Index(got, "HIRING GUIDELINES"), strings.Index(got, "job description: Backend"))
}

func TestBuildUserPrompt(t *testing.T) {
	pb := NewPromptBuilder("Summarize this resume.")

	assert.Equal(t, "Is this a fit?\n\nHere is the candidate's resume: Jane Doe, Go",
		pb.BuildUserPrompt("Is this a fit?", "Jane Doe, Go"))
	assert.Equal(t, "\n\nHere is the candidate's resume: Jane Doe, Go",
		pb.BuildUserPrompt("", "Jane Doe, Go"))
	assert.Equal(t, "Summarize this resume.", pb.DefaultPrompt())
}

func TestFormatRAGContext(t *testing.T) {
	assert.Empty(t, FormatRAGContext(nil))

	got := FormatRAGContext([]SearchResult{
		{Source: "guidelines.pdf", Score: 0.912, Text: "  Value ownership.  "},
		{Source: "rubric.pdf", Score: 0.5, Text: "Weigh Go experience."},
	})

	assert.Equal(t, "--- Guideline 1 (guidelines.pdf, score 0.91) ---\nValue ownership.\n\n"+
		"--- Guideline 2 (rubric.pdf, score 0.50) ---\nWeigh Go experience.", got)
}
