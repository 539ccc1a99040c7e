package recommend

import (
	"fmt"
	"strings"

	"github.com/sakshikumar19/mentor/internal/knowledge"
)

const systemPrompt = "You are a helpful assistant for code review."

const promptTemplate = `You are a senior software engineer performing a detailed code review. Your reviews are known for being thorough, educational, and actionable.

Analyze the following change in file %s:
` + "```" + `
%s
` + "```" + `

%sPerform a comprehensive review focusing on:
1. Code quality and readability: naming, structure, documentation, complexity.
2. Performance: algorithmic efficiency, resource usage, potential bottlenecks.
3. Security: input validation, data exposure, common vulnerabilities.
4. Bug prevention: edge cases, error handling, state management.
5. Maintainability: test coverage, modularity, coupling and cohesion.

For each issue found:
1. Be specific about the line numbers or code sections.
2. Explain WHY it is an issue.
3. Suggest a concrete solution with example code where appropriate.
4. Rate severity as high, medium, or low.

Format your response as a JSON list of recommendations:
[
  {
    "type": "llm",
    "subtype": "specific_category",
    "message": "Detailed issue description with line numbers",
    "explanation": "Why this is an issue or best practice",
    "suggestion": "Concrete solution with example code if applicable",
    "severity": "high/medium/low"
  }
]

Respond with the JSON list only.`

// buildPrompt renders the generation prompt: the diff, the file path, and
// up to three similar-code excerpts as repository context.
func buildPrompt(diffText, filePath string, similar []knowledge.SimilarChunk) string {
	var context string
	if len(similar) > 0 {
		var sb strings.Builder
		sb.WriteString("Similar code in the repository:\n\n")
		for i, chunk := range similar {
			if i == maxExcerpts {
				break
			}
			fmt.Fprintf(&sb, "Example %d from %s:\n```\n%s\n```\n\n", i+1, chunk.File, chunk.Content)
		}
		context = sb.String()
	}
	return fmt.Sprintf(promptTemplate, filePath, diffText, context)
}
