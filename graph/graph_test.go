package graph

import (
	"context"
	"fmt"
	"testing"
)

func appendStep(name string) NodeFunc {
	return func(ctx context.Context, state State) (State, error) {
		steps, _ := state["steps"].([]string)
		state["steps"] = append(steps, name)
		return state, nil
	}
}

func TestExecuteFollowsConditionalBranch(t *testing.T) {
	for _, branch := range []string{"left", "right"} {
		g := NewBuilder().
			AddNode("start", NodeTypeStart, appendStep("start")).
			AddConditionNode("fork", func(ctx context.Context, state State) (string, error) {
				return branch, nil
			}, map[string]string{
				"left":  "left",
				"right": "right",
			}).
			AddNode("left", NodeTypeCustom, appendStep("left")).
			AddNode("right", NodeTypeCustom, appendStep("right")).
			AddNode("end", NodeTypeEnd, appendStep("end")).
			AddEdge("start", "fork").
			AddEdge("left", "end").
			AddEdge("right", "end").
			SetStart("start").
			Build()

		state, err := g.Execute(context.Background(), State{})
		if err != nil {
			t.Fatalf("execute failed: %v", err)
		}
		steps := state["steps"].([]string)
		want := []string{"start", branch, "end"}
		if len(steps) != len(want) {
			t.Fatalf("branch %s: expected %v, got %v", branch, want, steps)
		}
		for i := range want {
			if steps[i] != want[i] {
				t.Fatalf("branch %s: expected %v, got %v", branch, want, steps)
			}
		}
	}
}

func TestExecuteDetectsRunawayLoop(t *testing.T) {
	g := NewBuilder().
		AddNode("start", NodeTypeStart, appendStep("start")).
		AddNode("loop", NodeTypeCustom, appendStep("loop")).
		AddEdge("start", "loop").
		AddEdge("loop", "loop").
		SetStart("start").
		Build()
	g.SetMaxVisits(3)

	if _, err := g.Execute(context.Background(), State{}); err == nil {
		t.Fatal("expected loop detection error")
	}
}

func TestExecutePropagatesNodeError(t *testing.T) {
	sentinel := fmt.Errorf("boom")
	g := NewBuilder().
		AddNode("start", NodeTypeStart, func(ctx context.Context, state State) (State, error) {
			return state, sentinel
		}).
		SetStart("start").
		Build()

	if _, err := g.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected node error to propagate")
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewBuilder().
		AddNode("start", NodeTypeStart, appendStep("start")).
		AddNode("end", NodeTypeEnd, appendStep("end")).
		AddEdge("start", "end").
		SetStart("start").
		Build()

	if _, err := g.Execute(ctx, State{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestExecuteMissingBranchLabel(t *testing.T) {
	g := NewBuilder().
		AddNode("start", NodeTypeStart, appendStep("start")).
		AddConditionNode("fork", func(ctx context.Context, state State) (string, error) {
			return "unknown", nil
		}, map[string]string{"known": "end"}).
		AddNode("end", NodeTypeEnd, appendStep("end")).
		AddEdge("start", "fork").
		SetStart("start").
		Build()

	if _, err := g.Execute(context.Background(), State{}); err == nil {
		t.Fatal("expected error for unmapped branch label")
	}
}
