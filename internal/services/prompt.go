package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct {
	defaultPrompt string
}

func NewPromptBuilder(defaultPrompt string) *PromptBuilder {
	return &PromptBuilder{defaultPrompt: defaultPrompt}
}

// BuildSystemPrompt embeds the job description, plus any retrieved hiring
// guidelines, into the system instruction.
func (pb *PromptBuilder) BuildSystemPrompt(jobDescription, guidelines string) string {
	var sb strings.Builder
	sb.WriteString(`You are a helpful resume summarization agent.

You will be given a job description as part of the system prompt and then compare it
against the resume in the user's first regular prompt. Your job is to summarize the
applicant's abilities according to their resume and respond with this summary. Do not
give any suggestions in the response, only the summary of the resume.
`)

	if strings.TrimSpace(guidelines) != "" {
		fmt.Fprintf(&sb, "\nHIRING GUIDELINES:\n%s\n", guidelines)
	}

	fmt.Fprintf(&sb, "\nHere is the job description: %s\n", jobDescription)
	return sb.String()
}

// DefaultPrompt is used when a request carries no prompt at all.
func (pb *PromptBuilder) DefaultPrompt() string {
	return pb.defaultPrompt
}

// BuildUserPrompt appends the resume to the user's prompt as given, blank or not.
func (pb *PromptBuilder) BuildUserPrompt(prompt, resumeText string) string {
	return fmt.Sprintf("%s\n\nHere is the candidate's resume: %s", prompt, resumeText)
}

func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (%s, score %.2f) ---\n%s",
			i+1, result.Source, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
