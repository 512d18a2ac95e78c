package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"legalassist/extract"
	"legalassist/graph"
	"legalassist/llm"
	"legalassist/message"
	"legalassist/pkg/logging"
	"legalassist/pkg/telemetry"
	"legalassist/vector"
	"legalassist/websearch"
)

// Collaborators groups the external systems one assistant depends on. All of
// them must be safe for concurrent use; the assistant itself holds no locks
// and independent runs may execute concurrently.
type Collaborators struct {
	LLM   llm.Client
	Index vector.Index
	Web   websearch.Client
	OCR   extract.OCR // optional; required only for image input
	PDF   extract.PDF // optional; defaults to the in-process parser
}

// Assistant wires the query-resolution workflow together: input normalization,
// query decomposition, document and web retrieval with sufficiency evaluation,
// conditional supplemental retrieval, and cited response synthesis.
//
// The workflow is a static graph with two branch points:
//
//	process_input -> understand_query -> document_search -> evaluate_doc_search
//	  -> {web_search | additional_search}
//	web_search -> evaluate_web_search -> {generate_response | additional_search}
//	additional_search -> generate_response
//
// Each stage runs at most once per invocation, bounding the worst case to a
// fixed number of collaborator calls.
type Assistant struct {
	cfg    *Config
	llm    llm.Client
	index  vector.Index
	web    websearch.Client
	ocr    extract.OCR
	pdf    extract.PDF
	graph  *graph.Graph
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a fully wired assistant.
func New(c Collaborators, opts ...Option) (*Assistant, error) {
	if c.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if c.Index == nil {
		return nil, fmt.Errorf("document index is required")
	}
	if c.Web == nil {
		return nil, fmt.Errorf("web search client is required")
	}

	pdf := c.PDF
	if pdf == nil {
		pdf = extract.LocalPDF{}
	}

	cfg := applyOptions(opts)
	logger := cfg.logger
	if logger == nil {
		logger = logging.WithComponent("assistant").With("assistant", cfg.Name)
	}

	a := &Assistant{
		cfg:    cfg,
		llm:    c.LLM,
		index:  c.Index,
		web:    c.Web,
		ocr:    c.OCR,
		pdf:    pdf,
		logger: logger,
		tracer: telemetry.Tracer("legalassist/assistant"),
	}

	builder := graph.NewBuilder().
		AddNode("process_input", graph.NodeTypeStart, a.stage("process_input", a.processInputNode)).
		AddNode("understand_query", graph.NodeTypeLLM, a.stage("understand_query", a.understandQueryNode)).
		AddNode("document_search", graph.NodeTypeTool, a.stage("document_search", a.documentSearchNode)).
		AddNode("evaluate_doc_search", graph.NodeTypeLLM, a.stage("evaluate_doc_search", a.evaluateDocSearchNode)).
		AddConditionNode("doc_gate", a.additionalSearchGate, map[string]string{
			"additional_search": "additional_search",
			"generate_response": "web_search",
		}).
		AddNode("web_search", graph.NodeTypeTool, a.stage("web_search", a.webSearchNode)).
		AddNode("evaluate_web_search", graph.NodeTypeLLM, a.stage("evaluate_web_search", a.evaluateWebSearchNode)).
		AddConditionNode("web_gate", a.additionalSearchGate, map[string]string{
			"additional_search": "additional_search",
			"generate_response": "generate_response",
		}).
		AddNode("additional_search", graph.NodeTypeTool, a.stage("additional_search", a.additionalSearchNode)).
		AddNode("generate_response", graph.NodeTypeEnd, a.stage("generate_response", a.generateResponseNode)).
		AddEdge("process_input", "understand_query").
		AddEdge("understand_query", "document_search").
		AddEdge("document_search", "evaluate_doc_search").
		AddEdge("evaluate_doc_search", "doc_gate").
		AddEdge("web_search", "evaluate_web_search").
		AddEdge("evaluate_web_search", "web_gate").
		AddEdge("additional_search", "generate_response").
		SetStart("process_input").
		SetMaxVisits(cfg.GraphMaxVisits)

	a.graph = builder.Build()
	a.logger.Info("assistant initialised",
		"threshold", cfg.Threshold,
		"doc_top_k", cfg.DocTopK,
		"web_max_results", cfg.WebMaxResults,
		"web_evidence_cap", cfg.WebEvidenceCap,
	)
	return a, nil
}

// ProcessQuery drives the workflow to completion for one invocation. The
// caller always receives either a complete answer with references or an
// error; best-effort stages (web search, supplemental search) are absorbed
// internally and never surface here.
func (a *Assistant) ProcessQuery(ctx context.Context, q Query) (*Result, error) {
	if q.Kind == "" {
		q.Kind = KindText
	}
	a.logger.Info("workflow run started", "input_kind", q.Kind, "seed_turns", len(q.History))

	initial := graph.State{
		workflowStateKey: &workflowState{
			query:   q,
			history: message.SeedHistory(a.cfg.HistoryCap, q.History),
		},
	}

	finalState, err := a.graph.Execute(ctx, initial)
	if err != nil {
		a.logger.Error("workflow run failed", "error", err)
		return nil, err
	}

	ws, err := getState(finalState)
	if err != nil {
		return nil, err
	}

	a.logger.Info("workflow run completed",
		"doc_evidence", len(ws.docResults),
		"web_evidence", len(ws.webResults),
		"references", len(ws.references),
	)
	return ws.result(), nil
}

// stage wraps a node with a trace span named after the workflow stage.
func (a *Assistant) stage(name string, fn graph.NodeFunc) graph.NodeFunc {
	return func(ctx context.Context, state graph.State) (graph.State, error) {
		ctx, span := telemetry.StartStage(ctx, a.tracer, name)
		out, err := fn(ctx, state)
		telemetry.End(span, err)
		return out, err
	}
}

func (a *Assistant) processInputNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	input, err := a.normalize(ctx, ws.query)
	if err != nil {
		return state, err
	}
	ws.input = input
	a.logger.Debug("input normalized", "kind", input.Kind, "content_length", len(input.Content))
	return state, nil
}

func (a *Assistant) understandQueryNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	// The human turn enters history at the moment decomposition consumes it.
	ws.history.Append(message.NewMessage(message.RoleUser, ws.input.Content))

	intent, err := a.decompose(ctx, ws.input.Content)
	if err != nil {
		return state, err
	}
	ws.intent = intent
	a.logger.Info("query decomposed",
		"core_issue", trimForLog(intent.CoreLegalIssue, 80),
		"jurisdiction", intent.Jurisdiction,
		"subqueries", len(intent.Subqueries),
	)
	return state, nil
}

func (a *Assistant) documentSearchNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	results, err := a.searchDocuments(ctx, ws.intent)
	if err != nil {
		return state, err
	}
	ws.docResults = results
	a.logger.Debug("document search completed", "hits", len(results))
	return state, nil
}

func (a *Assistant) evaluateDocSearchNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	eval, err := a.evaluateDocuments(ctx, ws.intent, ws.docResults)
	if err != nil {
		return state, err
	}
	decision := documentGate(*eval, a.cfg.Threshold)

	ws.docEval = eval
	ws.docSufficient = decision.Sufficient
	ws.needAdditionalSearch = decision.NeedAdditionalSearch
	a.logger.Info("document evidence evaluated",
		"relevance_score", eval.RelevanceScore,
		"sufficient", decision.Sufficient,
		"gaps", len(eval.InformationGaps),
	)
	return state, nil
}

func (a *Assistant) webSearchNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	ws.webResults = a.searchWeb(ctx, ws.intent)
	a.logger.Debug("web search completed", "hits", len(ws.webResults))
	return state, nil
}

func (a *Assistant) evaluateWebSearchNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	eval, err := a.evaluateWeb(ctx, ws.intent, ws.webResults)
	if err != nil {
		return state, err
	}
	decision := webGate(*eval, a.cfg.Threshold, ws.needAdditionalSearch)

	ws.webEval = eval
	ws.webSufficient = decision.Sufficient
	ws.needAdditionalSearch = decision.NeedAdditionalSearch
	a.logger.Info("web evidence evaluated",
		"relevance_score", eval.RelevanceScore,
		"sufficient", decision.Sufficient,
		"gaps", len(eval.InformationGaps),
	)
	return state, nil
}

func (a *Assistant) additionalSearchGate(ctx context.Context, state graph.State) (string, error) {
	ws, err := getState(state)
	if err != nil {
		return "", err
	}
	if ws.needAdditionalSearch {
		return "additional_search", nil
	}
	return "generate_response", nil
}

func (a *Assistant) additionalSearchNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	var docGaps, webGaps []string
	if ws.docEval != nil {
		docGaps = ws.docEval.InformationGaps
	}
	if ws.webEval != nil {
		webGaps = ws.webEval.InformationGaps
	}

	ws.webResults = a.searchGaps(ctx, ws.intent, docGaps, webGaps, ws.webResults)
	// Not re-entrant within one invocation.
	ws.needAdditionalSearch = false
	a.logger.Info("supplemental search completed", "web_evidence", len(ws.webResults))
	return state, nil
}

func (a *Assistant) generateResponseNode(ctx context.Context, state graph.State) (graph.State, error) {
	ws, err := getState(state)
	if err != nil {
		return state, err
	}

	answer, err := a.synthesize(ctx, ws.input, ws.intent, ws.docResults, ws.webResults, ws.history)
	if err != nil {
		return state, err
	}

	ws.answer = answer
	ws.references = extractReferences(ws.docResults, ws.webResults)

	assistantTurn := message.NewMessage(message.RoleAssistant, answer)
	assistantTurn.References = ws.references
	ws.history.Append(assistantTurn)
	return state, nil
}

func trimForLog(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len([]rune(text)) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
