package tutor

import (
	"fmt"
	"strings"
)

const explainSystemPrompt = `You are an expert and friendly math tutor. Explain how to solve a problem so the student learns the underlying idea, not just the answer.`

func buildExplainUserMessage(req ExplainRequest) string {
	var b strings.Builder

	b.WriteString("Student Information:\n")
	fmt.Fprintf(&b, "- Grade Level: %s\n", req.GradeLevel)
	fmt.Fprintf(&b, "- Topic: %s\n", req.Topic)
	b.WriteString("\nProblem to Explain:\n")
	b.WriteString(req.Problem)
	b.WriteString("\n")

	b.WriteString(`
Instructions:
Put the whole explanation in detailedExplanation, formatted as Markdown with exactly these sections:

### Step-by-Step Solution
- State the goal, then solve in a short numbered list of steps.
- Say why each step is taken, not only what it does.
- End with the final answer.

### Alternative Methods
- Briefly describe another valid approach (a different formula, a picture, a shortcut) and when it helps.
- If there is no practical alternative, say that the step-by-step method is the most common way to solve this problem.

### Real-Life Context
- Give one everyday example a student at this grade would recognise where the idea is used.
- Explain how the math answers the real-life question.

For videoExplanationUrl, give a link to a video from a reputable educational channel that explains this concept. If you are not sure the link exists and is relevant, use an empty string.`)

	return b.String()
}

const chatSystemPrompt = `You are a friendly math assistant for school students. Answer questions clearly and briefly, at the level of the student's grade. If a question is not about math, gently steer back to math.`

func buildChatUserMessage(req ChatRequest) string {
	var b strings.Builder

	if req.StudentGrade > 0 {
		fmt.Fprintf(&b, "Student grade: %d\n", req.StudentGrade)
	}
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	b.WriteString("\nQuestion:\n")
	b.WriteString(req.Question)
	b.WriteString("\n")

	return b.String()
}
