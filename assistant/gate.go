package assistant

// The sufficiency gates are pure: a relevance score against the threshold,
// nothing else. A stage is sufficient at exactly the threshold (boundary
// inclusive).

// documentGate decides after the document evaluation. Insufficiency raises the
// need-additional-search flag.
func documentGate(eval Evaluation, threshold float64) GateDecision {
	sufficient := eval.RelevanceScore >= threshold
	return GateDecision{
		Sufficient:           sufficient,
		NeedAdditionalSearch: !sufficient,
	}
}

// webGate decides after the web evaluation. The flag stays raised only when
// the document stage left it raised AND the web stage is itself insufficient;
// either stage clearing it skips supplemental search.
func webGate(eval Evaluation, threshold float64, priorNeed bool) GateDecision {
	sufficient := eval.RelevanceScore >= threshold
	return GateDecision{
		Sufficient:           sufficient,
		NeedAdditionalSearch: priorNeed && !sufficient,
	}
}
