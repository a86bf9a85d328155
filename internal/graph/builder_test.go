package graph

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/groblegark/depgraph/internal/client"
	"github.com/groblegark/depgraph/internal/model"
)

// fakeSource serves issues from a map and counts fetches per key.
type fakeSource struct {
	issues map[string]*model.Issue
	calls  map[string]int
}

func newFakeSource(issues ...*model.Issue) *fakeSource {
	m := make(map[string]*model.Issue, len(issues))
	for _, issue := range issues {
		m[issue.Key] = issue
	}
	return &fakeSource{issues: m, calls: make(map[string]int)}
}

func (f *fakeSource) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	f.calls[key]++
	issue, ok := f.issues[key]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "issue does not exist"}
	}
	cp := *issue
	return &cp, nil
}

func (f *fakeSource) Close() error { return nil }

func (f *fakeSource) totalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func open(key, priority string, subtasks, outward []string) *model.Issue {
	return &model.Issue{
		Key:          key,
		Summary:      "Summary of " + key,
		Status:       model.StatusOpen,
		Priority:     priority,
		Subtasks:     subtasks,
		OutwardLinks: outward,
	}
}

func done(key string, status model.Status) *model.Issue {
	return &model.Issue{Key: key, Summary: "Summary of " + key, Status: status}
}

func testBuilder(f *fakeSource) *Builder {
	return NewBuilder(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func retainedKeys(res *Result) []string {
	keys := make([]string, 0, len(res.Issues))
	for _, issue := range res.Issues {
		keys = append(keys, issue.Key)
	}
	return keys
}

func TestRun_RootOnly(t *testing.T) {
	f := newFakeSource(open("A", "P1", nil, nil))
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("retained = %v, want [A]", got)
	}
	if res.Processed != 1 {
		t.Errorf("Processed = %d, want 1", res.Processed)
	}
	if _, ok := res.Links["A"]; !ok {
		t.Error("Links missing entry for expanded root")
	}
	if edges := res.Edges(nil); len(edges) != 0 {
		t.Errorf("Edges() = %v, want none", edges)
	}
}

func TestRun_SkipsFinishedIssues(t *testing.T) {
	// Root A (open, P1) has sub-task B (open, P2) and outward link C
	// (Closed). C must disappear entirely: no node, no edge, and its own
	// links must never be explored.
	f := newFakeSource(
		open("A", "P1", []string{"B"}, []string{"C"}),
		open("B", "P2", nil, nil),
		&model.Issue{Key: "C", Status: model.StatusClosed, OutwardLinks: []string{"D"}},
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("retained = %v, want [A B]", got)
	}
	if res.Processed != 2 {
		t.Errorf("Processed = %d, want 2", res.Processed)
	}

	edges := res.Edges(nil)
	want := []Edge{{Source: "A", Target: "B"}}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("Edges() = %v, want %v", edges, want)
	}

	// C was fetched exactly once and then dropped; D, reachable only
	// through C, was never fetched at all.
	if f.calls["C"] != 1 {
		t.Errorf("calls[C] = %d, want 1", f.calls["C"])
	}
	if f.calls["D"] != 0 {
		t.Errorf("calls[D] = %d, want 0", f.calls["D"])
	}
	if _, ok := res.Links["C"]; ok {
		t.Error("Links has entry for dropped issue C")
	}
}

func TestRun_DiamondFetchedOnce(t *testing.T) {
	// A -> B, C; both point at D. D must be fetched once.
	f := newFakeSource(
		open("A", "P0", []string{"B", "C"}, nil),
		open("B", "P1", nil, []string{"D"}),
		open("C", "P2", nil, []string{"D"}),
		open("D", "P3", nil, nil),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, key := range []string{"A", "B", "C", "D"} {
		if f.calls[key] != 1 {
			t.Errorf("calls[%s] = %d, want 1", key, f.calls[key])
		}
	}
	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("retained = %v, want [A B C D]", got)
	}

	want := []Edge{
		{Source: "A", Target: "B"},
		{Source: "A", Target: "C"},
		{Source: "B", Target: "D"},
		{Source: "C", Target: "D"},
	}
	if got := res.Edges(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestRun_CycleTerminates(t *testing.T) {
	f := newFakeSource(
		open("A", "P1", nil, []string{"B"}),
		open("B", "P1", nil, []string{"A"}),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.calls["A"] != 1 || f.calls["B"] != 1 {
		t.Errorf("calls = %v, want exactly one fetch each", f.calls)
	}

	want := []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "A"},
	}
	if got := res.Edges(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestRun_StopIssueIsLeaf(t *testing.T) {
	f := newFakeSource(
		open("A", "P1", []string{"B"}, nil),
		open("B", "P2", []string{"C"}, nil),
		open("C", "P3", nil, nil),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A", Stops: []string{"B"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// B appears as a node but contributes no outgoing edges, and its
	// children are never fetched.
	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("retained = %v, want [A B]", got)
	}
	if res.Processed != 2 {
		t.Errorf("Processed = %d, want 2", res.Processed)
	}
	if _, ok := res.Links["B"]; ok {
		t.Error("Links has entry for stop issue B")
	}
	if f.calls["C"] != 0 {
		t.Errorf("calls[C] = %d, want 0", f.calls["C"])
	}

	want := []Edge{{Source: "A", Target: "B"}}
	if got := res.Edges(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestRun_RootInStopSet(t *testing.T) {
	f := newFakeSource(open("A", "P1", []string{"B"}, nil))
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A", Stops: []string{"A"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("retained = %v, want [A]", got)
	}
	if edges := res.Edges(nil); len(edges) != 0 {
		t.Errorf("Edges() = %v, want none", edges)
	}
	if _, ok := res.Links["A"]; ok {
		t.Error("Links has entry for stopped root")
	}
	if f.calls["B"] != 0 {
		t.Errorf("calls[B] = %d, want 0", f.calls["B"])
	}
}

func TestRun_RootFinished(t *testing.T) {
	f := newFakeSource(done("A", model.StatusResolved))
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Issues) != 0 {
		t.Errorf("retained = %v, want none", retainedKeys(res))
	}
	if res.Processed != 0 {
		t.Errorf("Processed = %d, want 0", res.Processed)
	}
	if len(res.Links) != 0 {
		t.Errorf("Links = %v, want empty", res.Links)
	}
}

func TestRun_FetchErrorAborts(t *testing.T) {
	f := newFakeSource(open("A", "P1", []string{"B"}, nil))
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if res != nil {
		t.Errorf("result = %+v, want nil on abort", res)
	}
	if !strings.Contains(err.Error(), "B") {
		t.Errorf("error = %q, want to name the failing key", err.Error())
	}
}

func TestRun_NoRoot(t *testing.T) {
	f := newFakeSource()
	_, err := testBuilder(f).Run(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if f.totalCalls() != 0 {
		t.Errorf("total fetches = %d, want 0 before validation failure", f.totalCalls())
	}
}

func TestRun_SubtasksBeforeOutwardLinks(t *testing.T) {
	f := newFakeSource(
		open("A", "P1", []string{"S"}, []string{"O"}),
		open("S", "P2", nil, nil),
		open("O", "P2", nil, nil),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := res.Links["A"]; !reflect.DeepEqual(got, []string{"S", "O"}) {
		t.Errorf("Links[A] = %v, want [S O]", got)
	}
	if got := retainedKeys(res); !reflect.DeepEqual(got, []string{"A", "S", "O"}) {
		t.Errorf("retained = %v, want [A S O]", got)
	}
}

func TestRun_DuplicateChildFetchedOnce(t *testing.T) {
	// B is both a sub-task and an outward link of A. It is fetched once,
	// but both recorded links survive as edges.
	f := newFakeSource(
		open("A", "P1", []string{"B"}, []string{"B"}),
		open("B", "P2", nil, nil),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.calls["B"] != 1 {
		t.Errorf("calls[B] = %d, want 1", f.calls["B"])
	}
	want := []Edge{
		{Source: "A", Target: "B"},
		{Source: "A", Target: "B"},
	}
	if got := res.Edges(nil); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestRun_Idempotent(t *testing.T) {
	build := func() (*Result, *fakeSource) {
		f := newFakeSource(
			open("A", "P0", []string{"B", "C"}, nil),
			open("B", "P1", nil, []string{"D"}),
			open("C", "P2", nil, []string{"D"}),
			open("D", "P3", nil, nil),
		)
		res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return res, f
	}

	res1, _ := build()
	res2, _ := build()

	if !reflect.DeepEqual(retainedKeys(res1), retainedKeys(res2)) {
		t.Errorf("retained differs across runs: %v vs %v", retainedKeys(res1), retainedKeys(res2))
	}
	if !reflect.DeepEqual(res1.Links, res2.Links) {
		t.Errorf("Links differ across runs: %v vs %v", res1.Links, res2.Links)
	}
	if !reflect.DeepEqual(res1.Edges(nil), res2.Edges(nil)) {
		t.Errorf("Edges differ across runs")
	}
}

func TestEdges_Annotations(t *testing.T) {
	f := newFakeSource(
		open("A", "P1", nil, []string{"B", "C"}),
		open("B", "P2", nil, nil),
		open("C", "P2", nil, []string{"B"}),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	notes := map[string]string{"B": "[minlen=2]"}
	want := []Edge{
		{Source: "A", Target: "B", Note: "[minlen=2]"},
		{Source: "A", Target: "C"},
		{Source: "C", Target: "B", Note: "[minlen=2]"},
	}
	if got := res.Edges(notes); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestEdges_NoDanglingEndpoints(t *testing.T) {
	f := newFakeSource(
		open("A", "P1", []string{"B"}, []string{"C", "E"}),
		open("B", "P2", nil, []string{"C"}),
		done("C", model.StatusClosed),
		done("E", model.StatusResolved),
	)
	res, err := testBuilder(f).Run(context.Background(), Options{Root: "A"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	retained := make(map[string]bool)
	for _, issue := range res.Issues {
		retained[issue.Key] = true
	}
	for _, e := range res.Edges(nil) {
		if !retained[e.Source] {
			t.Errorf("edge %v has unrendered source", e)
		}
		if !retained[e.Target] {
			t.Errorf("edge %v has unrendered target", e)
		}
	}
}
