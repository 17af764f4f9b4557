// Package mcp exposes the skill engine over the Model Context Protocol
// so an external agent can start a skill, read the current step document,
// and report an outcome to advance. One session is live at a time.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"playbook/internal/logging"
	"playbook/internal/skill"
	"playbook/pkg/workflow"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var DefaultSessionTTL = 5 * time.Minute

// Server wraps the MCP SDK server and manages the active skill session.
type Server struct {
	MCPServer *sdkmcp.Server

	mu      sync.Mutex
	session *Session
}

// NewServer creates an MCP server with the skill-walking tools registered.
func NewServer() *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "playbook", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "start_skill",
		Description: "Start a skill session at its entry step and return a session ID.",
	}, s.handleStartSkill)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_current_step",
		Description: "Get the rendered document for the session's current step.",
	}, s.handleGetCurrentStep)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "advance",
		Description: "Report the outcome of the current step and move to the next one. Returns done=true when the skill ends.",
	}, s.handleAdvance)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get the session's accumulated state and the trace of steps walked so far.",
	}, s.handleGetState)
}

// --- Tool input/output types ---

type startSkillInput struct {
	Skill      string `json:"skill" jsonschema:"skill name (codereview, commitmsg)"`
	ParamsJSON string `json:"params_json,omitempty" jsonschema:"JSON object of parameter values, e.g. {\"mode\":\"quick\"}"`
	Force      bool   `json:"force,omitempty" jsonschema:"replace any existing session"`
}

type startSkillOutput struct {
	SessionID string `json:"session_id"`
	Skill     string `json:"skill"`
	Entry     string `json:"entry"`
	Steps     int    `json:"steps"`
	Status    string `json:"status"`
}

type getCurrentStepInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from start_skill"`
}

type getCurrentStepOutput struct {
	Done     bool   `json:"done"`
	Step     string `json:"step,omitempty"`
	Title    string `json:"title,omitempty"`
	Document string `json:"document,omitempty"`
	Agent    string `json:"agent,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Status   string `json:"status"`
}

type advanceInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from start_skill"`
	Outcome   string `json:"outcome" jsonschema:"outcome of the current step (ok, fail, skip, iterate)"`
	DeltaJSON string `json:"delta_json,omitempty" jsonschema:"JSON object of state entries to record with this step"`
}

type advanceOutput struct {
	Done   bool   `json:"done"`
	Next   string `json:"next,omitempty"`
	Status string `json:"status"`
}

type getStateInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID from start_skill"`
}

type getStateOutput struct {
	Step      string                `json:"step"`
	Status    string                `json:"status"`
	StateJSON string                `json:"state_json"`
	Trace     []workflow.StepRecord `json:"trace,omitempty"`
}

// --- Handlers ---

func (s *Server) handleStartSkill(ctx context.Context, _ *sdkmcp.CallToolRequest, input startSkillInput) (*sdkmcp.CallToolResult, startSkillOutput, error) {
	sk, err := skill.Lookup(input.Skill)
	if err != nil {
		return nil, startSkillOutput{}, err
	}

	var params map[string]any
	if input.ParamsJSON != "" {
		if err := json.Unmarshal([]byte(input.ParamsJSON), &params); err != nil {
			return nil, startSkillOutput{}, fmt.Errorf("params_json: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.session.Status() != StateDone && !s.session.Expired() && !input.Force {
		return nil, startSkillOutput{}, fmt.Errorf(
			"session %s is still active; pass force=true to replace it", s.session.ID)
	}

	sess := NewSession(sk, params)
	sess.SetTTL(DefaultSessionTTL)
	s.session = sess

	logger := logging.New("mcp")
	logger.Info("session started", "session", sess.ID, "skill", sk.Name)

	return nil, startSkillOutput{
		SessionID: sess.ID,
		Skill:     sk.Name,
		Entry:     sk.Workflow.Entry(),
		Steps:     sk.Workflow.Len(),
		Status:    string(sess.Status()),
	}, nil
}

func (s *Server) handleGetCurrentStep(ctx context.Context, _ *sdkmcp.CallToolRequest, input getCurrentStepInput) (*sdkmcp.CallToolResult, getCurrentStepOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(input.SessionID)
	if err != nil {
		return nil, getCurrentStepOutput{}, err
	}
	if sess.Status() == StateDone {
		return nil, getCurrentStepOutput{Done: true, Status: string(StateDone)}, nil
	}

	step, ok := sess.Current()
	if !ok {
		return nil, getCurrentStepOutput{}, fmt.Errorf("session %s lost its step", sess.ID)
	}
	doc, err := skill.RenderStep(sess.Skill.Workflow, step.ID)
	if err != nil {
		return nil, getCurrentStepOutput{}, fmt.Errorf("render step %s: %w", step.ID, err)
	}

	out := getCurrentStepOutput{
		Step:     step.ID,
		Title:    step.Title,
		Document: doc,
		Status:   string(sess.Status()),
	}
	if step.Dispatch != nil {
		out.Agent = step.Dispatch.Agent
		out.Prompt = step.Dispatch.Prompt
	}
	return nil, out, nil
}

func (s *Server) handleAdvance(ctx context.Context, _ *sdkmcp.CallToolRequest, input advanceInput) (*sdkmcp.CallToolResult, advanceOutput, error) {
	var delta map[string]any
	if input.DeltaJSON != "" {
		if err := json.Unmarshal([]byte(input.DeltaJSON), &delta); err != nil {
			return nil, advanceOutput{}, fmt.Errorf("delta_json: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(input.SessionID)
	if err != nil {
		return nil, advanceOutput{}, err
	}
	if err := sess.Advance(workflow.Outcome(input.Outcome), delta); err != nil {
		return nil, advanceOutput{}, fmt.Errorf("advance: %w", err)
	}

	if sess.Status() == StateDone {
		return nil, advanceOutput{Done: true, Status: string(StateDone)}, nil
	}
	step, _ := sess.Current()
	return nil, advanceOutput{
		Next:   step.ID,
		Status: string(sess.Status()),
	}, nil
}

func (s *Server) handleGetState(ctx context.Context, _ *sdkmcp.CallToolRequest, input getStateInput) (*sdkmcp.CallToolResult, getStateOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(input.SessionID)
	if err != nil {
		return nil, getStateOutput{}, err
	}

	raw, err := json.Marshal(sess.State())
	if err != nil {
		return nil, getStateOutput{}, fmt.Errorf("marshal state: %w", err)
	}
	step := sess.current
	return nil, getStateOutput{
		Step:      step,
		Status:    string(sess.Status()),
		StateJSON: string(raw),
		Trace:     sess.Trace(),
	}, nil
}

// getSession resolves a session ID to the live session. Callers hold s.mu.
func (s *Server) getSession(id string) (*Session, error) {
	if s.session == nil {
		return nil, fmt.Errorf("no active session; call start_skill first")
	}
	if s.session.ID != id {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	if s.session.Expired() {
		return nil, fmt.Errorf("session %s expired", id)
	}
	s.session.SetTTL(DefaultSessionTTL)
	return s.session, nil
}
