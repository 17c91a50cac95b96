// Package mcp exposes the deterministic scheduling core to MCP clients.
// Every tool is read-only; the board is never mutated through this server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"boardkit/internal/infrastructure/wiring"
	"boardkit/pkg/application"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/storage"
)

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are omitted — only the friendly message is returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// Server wraps an mcp-go server around a boardkit workspace. Tools that
// touch the board build the service graph per call, so the server can
// start before the workspace is configured.
type Server struct {
	mcpServer *mcp.Server
	repo      *storage.FilesystemRepository
	root      string
	gateway   board.Gateway
}

// NewServer creates a server rooted at the given workspace directory.
// Board access uses the environment-configured GitHub gateway.
func NewServer(root string) *Server {
	return newServer(root, nil)
}

// NewServerWithGateway substitutes the board gateway, for tests and
// embedding.
func NewServerWithGateway(root string, gateway board.Gateway) *Server {
	return newServer(root, gateway)
}

func newServer(root string, gateway board.Gateway) *Server {
	info := mcp.ServerInfo{
		Name:    "boardkit",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Boardkit MCP Server"),
			mcp.WithDescription("Boardkit exposes deterministic sprint classification, assignment previews, and board snapshots to MCP clients."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use tools to classify issue titles, preview assignment runs, and read board status. Nothing here mutates the board."),
		),
		repo:    storage.NewFilesystemRepository(root),
		root:    root,
		gateway: gateway,
	}

	s.registerTools()
	s.registerRulesResource()
	return s
}

// services builds the per-call application graph. Board-reading tools
// need it; classification tools work from the workspace alone.
func (s *Server) services() (*wiring.AppServices, error) {
	if s.gateway != nil {
		return wiring.BuildAppServicesWithGateway(s.root, s.gateway)
	}
	return wiring.BuildAppServices(s.root, wiring.GatewayOptions{})
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("boardkit_classify").
		Description("Classify an issue title against the active rule table. Sprint 0 means no rule matched (ambiguous).").
		UIResource("ui://boardkit/classify").
		Handler(s.handleClassify)

	s.mcpServer.Tool("boardkit_preview").
		Description("Run a full assignment pass in dry-run mode and return the per-item decisions. The board is not modified.").
		UIResource("ui://boardkit/preview").
		Handler(s.handlePreview)

	s.mcpServer.Tool("boardkit_status").
		Description("Get a read-only board snapshot: items per sprint, unassigned items, missing due dates, ambiguous titles.").
		UIResource("ui://boardkit/status").
		Handler(s.handleStatus)

	s.mcpServer.Tool("boardkit_rules").
		Description("List the active classification rules in evaluation order, with their source (builtin or workspace).").
		UIResource("ui://boardkit/rules").
		Handler(s.handleRules)
}

// FlexBool accepts both boolean and string ("true"/"false") JSON values.
// MCP clients sometimes send string values for boolean fields.
type FlexBool bool

func (fb *FlexBool) UnmarshalJSON(data []byte) error {
	// Try bool first
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*fb = FlexBool(b)
		return nil
	}
	// Try string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*fb = FlexBool(s == "true" || s == "1" || s == "yes")
		return nil
	}
	return fmt.Errorf("expected boolean or string, got %s", string(data))
}

// FlexInt accepts both integer and string JSON values.
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
			*fi = FlexInt(n)
			return nil
		}
	}
	return fmt.Errorf("expected integer or string, got %s", string(data))
}

type ClassifyArgs struct {
	Title string `json:"title" jsonschema:"description=The issue title to classify"`
}

type classifyResponse struct {
	Title     string `json:"title"`
	Sprint    int    `json:"sprint"`
	Ambiguous bool   `json:"ambiguous"`
	Source    string `json:"rules_source"`
}

func (s *Server) handleClassify(ctx context.Context, args ClassifyArgs) (any, error) {
	if args.Title == "" {
		return nil, mcpErr("A title is required.")
	}
	rules, err := application.LoadRuleSet(s.repo)
	if err != nil {
		return nil, mcpErr("The workspace rules file is invalid. Fix .boardkit/rules.yaml or delete it.")
	}
	sprint := rules.Classify(args.Title)
	resp := classifyResponse{
		Title:     args.Title,
		Sprint:    sprint,
		Ambiguous: sprint == schedule.Ambiguous,
		Source:    rulesSource(s.repo),
	}
	return resp, nil
}

type PreviewArgs struct {
	DefaultSprint FlexInt `json:"default_sprint,omitempty" jsonschema:"description=Sprint number for ambiguous titles (defaults to the configured value)"`
	StartDate     string  `json:"start_date,omitempty" jsonschema:"description=YYYY-MM-DD override for the resolved iteration's start date"`
}

func (s *Server) handlePreview(ctx context.Context, args PreviewArgs) (any, error) {
	opts := application.AssignOptions{DryRun: true, DefaultSprint: int(args.DefaultSprint)}
	if args.StartDate != "" {
		d, err := board.ParseDate(args.StartDate)
		if err != nil {
			return nil, mcpErr("start_date must be YYYY-MM-DD.")
		}
		opts.StartOverride = d
	}

	services, err := s.services()
	if err != nil {
		return nil, mcpErr("Workspace not ready. Initialize it with 'boardkit init' and configure the board and a credential.")
	}
	defer services.Close()

	report, err := services.Assign.Run(ctx, opts)
	if err != nil {
		return nil, mcpErr("Preview failed. Check the board configuration with 'boardkit doctor'.")
	}
	return report, nil
}

type StatusArgs struct {
	IncludeRules FlexBool `json:"include_rules,omitempty" jsonschema:"description=Embed the active rule table in the response"`
}

func (s *Server) handleStatus(ctx context.Context, args StatusArgs) (any, error) {
	services, err := s.services()
	if err != nil {
		return nil, mcpErr("Workspace not ready. Initialize it with 'boardkit init' and configure the board and a credential.")
	}
	defer services.Close()

	status, err := services.Status.Snapshot(ctx)
	if err != nil {
		return nil, mcpErr("Status failed. Check the board configuration with 'boardkit doctor'.")
	}
	if !bool(args.IncludeRules) {
		return status, nil
	}
	rules, err := s.activeRules()
	if err != nil {
		return nil, mcpErr("The workspace rules file is invalid. Fix .boardkit/rules.yaml or delete it.")
	}
	return struct {
		*application.BoardStatus
		Rules rulesResponse `json:"rules"`
	}{status, rules}, nil
}

type ruleEntry struct {
	Index   int    `json:"index"`
	Pattern string `json:"pattern"`
	Sprint  int    `json:"sprint"`
}

type rulesResponse struct {
	Source string      `json:"source"`
	Rules  []ruleEntry `json:"rules"`
}

func (s *Server) handleRules(ctx context.Context, args struct{}) (any, error) {
	resp, err := s.activeRules()
	if err != nil {
		return nil, mcpErr("The workspace rules file is invalid. Fix .boardkit/rules.yaml or delete it.")
	}
	return resp, nil
}

func (s *Server) activeRules() (rulesResponse, error) {
	rules, err := application.LoadRuleSet(s.repo)
	if err != nil {
		return rulesResponse{}, err
	}
	resp := rulesResponse{Source: rulesSource(s.repo)}
	for i, rule := range rules.Rules() {
		resp.Rules = append(resp.Rules, ruleEntry{
			Index:   i,
			Pattern: rule.Pattern.String(),
			Sprint:  rule.Sprint,
		})
	}
	return resp, nil
}

func rulesSource(repo *storage.FilesystemRepository) string {
	if repo.HasRules() {
		return application.RulesWorkspace
	}
	return application.RulesBuiltin
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
