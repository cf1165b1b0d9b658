package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanSchema is the file and model-output structure of a project plan.
type PlanSchema struct {
	Project             *ProjectImport `json:"project,omitempty" yaml:"project,omitempty"`
	Members             []MemberImport `json:"members,omitempty" yaml:"members,omitempty"`
	Sprints             []SprintImport `json:"sprints" yaml:"sprints"`
	Tasks               []TaskImport   `json:"tasks" yaml:"tasks"`
	Recommendations     []string       `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	EstimatedCompletion string         `json:"estimatedCompletion,omitempty" yaml:"estimatedCompletion,omitempty"`
}

// ProjectImport optionally carries the project a plan file is meant for.
type ProjectImport struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	StartDate   string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// MemberImport is a team member the plan was generated for.
type MemberImport struct {
	UserID string `json:"userId" yaml:"userId"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
}

type SprintImport struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate   string   `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Goal        string   `json:"goal,omitempty" yaml:"goal,omitempty"`
	Goals       []string `json:"goals,omitempty" yaml:"goals,omitempty"`
}

type TaskImport struct {
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Label           string   `json:"label,omitempty" yaml:"label,omitempty"`
	Priority        string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	EstimatedHours  float64  `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"`
	StoryPoint      int      `json:"storyPoint,omitempty" yaml:"storyPoint,omitempty"`
	AssigneeRole    string   `json:"assigneeRole,omitempty" yaml:"assigneeRole,omitempty"`
	AssigneeID      string   `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	SprintIndex     *int     `json:"sprintIndex,omitempty" yaml:"sprintIndex,omitempty"`
	Sprint          string   `json:"sprint,omitempty" yaml:"sprint,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	ParentTaskTitle string   `json:"parentTaskTitle,omitempty" yaml:"parentTaskTitle,omitempty"`
	IsParent        *bool    `json:"isParent,omitempty" yaml:"isParent,omitempty"`
	Level           string   `json:"level,omitempty" yaml:"level,omitempty"`
	DueDate         string   `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// LoadPlanSchema reads a plan file. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func LoadPlanSchema(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParsePlanSchemaYAML(data)
	default:
		return ParsePlanSchemaJSON(data)
	}
}

func ParsePlanSchemaJSON(data []byte) (*PlanSchema, error) {
	var schema PlanSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &schema, nil
}

func ParsePlanSchemaYAML(data []byte) (*PlanSchema, error) {
	var schema PlanSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &schema, nil
}

// SavePlanSchema writes a plan file, as YAML for .yaml and .yml paths and
// as indented JSON otherwise.
func SavePlanSchema(path string, schema *PlanSchema) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(schema)
	default:
		data, err = json.MarshalIndent(schema, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding plan file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating plan directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan file: %w", err)
	}
	return nil
}
