// Package agent drafts follow-up tasks for a prospect with an adk agent.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
	"google.golang.org/genai"
)

const appName = "follow-up-task-drafter"

// DraftInput describes the prospect interaction to plan around.
type DraftInput struct {
	InteractionNotes string
	ProspectType     string
	ProspectName     string
	ProductOffered   string
}

type SaveFollowUpTasksInput struct {
	Tasks []string `json:"tasks"`
}

type SaveFollowUpTasksOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// taskToolDeps collects the tasks the agent saves during one run.
type taskToolDeps struct {
	mu    sync.Mutex
	tasks []string
}

func (d *taskToolDeps) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = nil
}

func (d *taskToolDeps) saved() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tasks...)
}

func (d *taskToolDeps) handleSaveFollowUpTasks(_ tool.Context, input SaveFollowUpTasksInput) (SaveFollowUpTasksOutput, error) {
	tasks := cleanTasks(input.Tasks)
	if len(tasks) == 0 {
		return SaveFollowUpTasksOutput{Status: "error", Message: "no tasks provided"}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, tasks...)
	return SaveFollowUpTasksOutput{Status: "ok", Message: fmt.Sprintf("%d tasks saved", len(tasks))}, nil
}

// TaskDrafter turns interaction notes into actionable follow-up tasks.
type TaskDrafter struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
	toolDeps       *taskToolDeps
	runMu          sync.Mutex
}

// NewTaskDrafter creates the drafter agent on llm.
func NewTaskDrafter(llm model.LLM) (*TaskDrafter, error) {
	deps := &taskToolDeps{}

	saveTool, err := functiontool.New(functiontool.Config{
		Name:        "SaveFollowUpTasks",
		Description: "Saves the list of follow-up tasks. Call this ONCE with every task you propose.",
	}, deps.handleSaveFollowUpTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to create SaveFollowUpTasks tool: %w", err)
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "FollowUpTaskDrafter",
		Model:       llm,
		Description: "Drafts follow-up tasks that move a roofing prospect down the sales funnel.",
		Instruction: getTaskDrafterSystemPrompt(),
		GenerateContentConfig: &genai.GenerateContentConfig{
			SafetySettings: safetySettings(),
		},
		Tools: []tool.Tool{saveTool},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task drafter agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task drafter runner: %w", err)
	}

	return &TaskDrafter{
		agent:          adkAgent,
		runner:         r,
		sessionService: sessionService,
		toolDeps:       deps,
	}, nil
}

// DraftTasks runs the agent once. Tasks saved through the tool win; otherwise
// the reply text is parsed.
func (d *TaskDrafter) DraftTasks(ctx context.Context, input DraftInput) ([]string, error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.toolDeps.reset()

	sessionID := uuid.New().String()
	userID := "task-drafter"

	_, err := d.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("task drafter: create session: %w", err)
	}
	defer func() {
		_ = d.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildTaskDrafterPrompt(input)}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var outputText strings.Builder
	for event, err := range d.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return nil, fmt.Errorf("task drafter: run failed: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			outputText.WriteString(part.Text)
		}
	}

	if tasks := d.toolDeps.saved(); len(tasks) > 0 {
		return tasks, nil
	}
	return parseTaskList(outputText.String()), nil
}

func buildTaskDrafterPrompt(input DraftInput) string {
	return fmt.Sprintf(`Interaction Notes:
%s

Prospect Type: %s
Prospect Name: %s
Product Offered: %s

Task:
Create a series of actionable follow-up tasks to nurture this prospect and move them further down the sales funnel.
Rules:
- Every task is specific, measurable, achievable, relevant and time-bound (SMART).
- Every task is one concise sentence the salesperson can act on directly.
- Propose between 3 and 7 tasks.
- Call SaveFollowUpTasks once with all tasks. Do not add commentary.
`, input.InteractionNotes, input.ProspectType, input.ProspectName, input.ProductOffered)
}

func getTaskDrafterSystemPrompt() string {
	return "You are an assistant helping commercial roofing salespeople plan follow-up tasks for prospects. Base every task on the interaction notes."
}
