package assistant

import (
	"fmt"

	"legalassist/graph"
	"legalassist/message"
)

const workflowStateKey = "__legal_workflow_state"

// workflowState is the aggregate threaded through every graph node. Each node
// reads the fields produced upstream and fills in only its own outputs.
type workflowState struct {
	query Query

	input  NormalizedInput
	intent QueryIntent

	docResults    []DocumentEvidence
	docEval       *Evaluation
	docSufficient bool

	webResults    []WebEvidence
	webEval       *Evaluation
	webSufficient bool

	needAdditionalSearch bool

	answer     string
	references []string

	history *message.History
}

func getState(state graph.State) (*workflowState, error) {
	raw, ok := state[workflowStateKey]
	if !ok {
		return nil, fmt.Errorf("workflow state missing in graph")
	}
	ws, ok := raw.(*workflowState)
	if !ok {
		return nil, fmt.Errorf("invalid workflow state type")
	}
	return ws, nil
}

func (ws *workflowState) result() *Result {
	return &Result{
		Input:           ws.input,
		Intent:          ws.intent,
		DocumentResults: ws.docResults,
		DocumentEval:    ws.docEval,
		WebResults:      ws.webResults,
		WebEval:         ws.webEval,
		Answer:          ws.answer,
		References:      ws.references,
		History:         ws.history.Turns(),
	}
}
