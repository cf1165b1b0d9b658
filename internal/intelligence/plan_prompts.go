package intelligence

import (
	"fmt"
	"strings"
)

const planSystemPrompt = `You are a delivery planner for software teams. You turn a project brief into
a sprint plan made of two-week sprints, parent tasks and subtasks.

Output ONLY a JSON object with this shape (no markdown, no comments):
{
  "sprints": [
    {"name": "Sprint 1: Foundation", "description": "...", "startDate": "YYYY-MM-DD",
     "endDate": "YYYY-MM-DD", "goals": ["..."]}
  ],
  "tasks": [
    {"title": "User Authentication System", "description": "...", "label": "STORY",
     "priority": "HIGHEST", "estimatedHours": 16, "assigneeRole": "Full Stack Developer",
     "sprintIndex": 0, "dependencies": [], "level": "PARENT"},
    {"title": "Login form", "description": "...", "label": "TASK", "priority": "HIGH",
     "estimatedHours": 8, "assigneeRole": "Frontend Developer", "sprintIndex": 0,
     "dependencies": [], "level": "SUBTASK", "parentTaskTitle": "User Authentication System"}
  ],
  "recommendations": ["..."],
  "estimatedCompletion": "YYYY-MM-DD"
}

Field rules:
- label: STORY, BUG, TASK or EPIC
- priority: HIGHEST, HIGH, MEDIUM, LOW or LOWEST
- level: PARENT or SUBTASK; every SUBTASK names an existing PARENT title in parentTaskTitle
- parent titles are unique
- sprintIndex is 0-based and must refer to a sprint in the list
- dependencies list titles of parent tasks that must be created first`

func buildPlanPrompt(b ProjectBrief) string {
	var members strings.Builder
	for _, m := range b.Members {
		fmt.Fprintf(&members, "- %s (%s)\n", m.Name(), m.EffectiveRole())
	}

	start := b.StartDate.Format(dateLayout)
	end := b.EndDate.Format(dateLayout)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a complete project plan for: %s\n", b.Name)
	fmt.Fprintf(&sb, "Description: %s\n", b.Description)
	if b.ProjectType != "" {
		fmt.Fprintf(&sb, "Project type: %s\n", b.ProjectType)
	}
	fmt.Fprintf(&sb, "\nREQUIREMENTS:\n")
	fmt.Fprintf(&sb, "- Dates: %s to %s\n", start, end)
	fmt.Fprintf(&sb, "- Duration: %d days = %d sprints\n", b.DurationDays(), b.SprintCount())
	fmt.Fprintf(&sb, "- Team: %d members\n", len(b.Members))
	fmt.Fprintf(&sb, "- Generate: %d tasks total (%d per sprint)\n", b.TotalTasks(), b.TasksPerSprint())
	fmt.Fprintf(&sb, "\nTEAM MEMBERS:\n%s", members.String())
	fmt.Fprintf(&sb, "\nRULES:\n")
	fmt.Fprintf(&sb, "1. Generate EXACTLY %d tasks across %d sprints\n", b.TotalTasks(), b.SprintCount())
	fmt.Fprintf(&sb, "2. Each sprint must have %d tasks\n", b.TasksPerSprint())
	fmt.Fprintf(&sb, "3. 70%% parent tasks (STORY), 30%% subtasks (TASK)\n")
	fmt.Fprintf(&sb, "4. Use roles: Frontend Developer, Backend Developer, Full Stack Developer, Tester, Designer\n")
	fmt.Fprintf(&sb, "5. The first sprint starts on %s and estimatedCompletion is %s\n", start, end)
	return sb.String()
}

const improveDescriptionPrompt = `Improve this task description:

Task: %s
Current: %s

Provide a better description with specific requirements and acceptance criteria. Return only the improved text.`
