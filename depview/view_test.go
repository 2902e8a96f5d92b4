package depview

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/dagdeps/depgraph"
	"github.com/kbukum/dagdeps/graphcache"
	"github.com/kbukum/dagdeps/workflow"
)

var refreshed = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func snapshotOf(defs ...workflow.Definition) *graphcache.Snapshot {
	return graphcache.NewSnapshot(depgraph.Build(defs), refreshed)
}

func defaultParams() Params {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg.Params()
}

func TestRenderTriggerChain(t *testing.T) {
	snap := snapshotOf(
		workflow.Definition{ID: "A", Tasks: []workflow.Task{workflow.NewTriggerTask("t1", "B")}},
		workflow.Definition{ID: "B"},
	)

	v := Render("DAG Dependencies", snap, defaultParams(), nil)

	var ids []string
	for _, n := range v.Nodes {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, " "); got != "[d]A [t]A#t1 [d]B" {
		t.Errorf("node ids = %s", got)
	}
	if got := fmt.Sprint(v.Edges); got != "[{[d]A [t]A#t1} {[t]A#t1 [d]B}]" {
		t.Errorf("edges = %s", got)
	}
	if v.Nodes[1].Value.Style != "fill: rgb(255, 239, 235);" || v.Nodes[1].Value.RX != 5 || v.Nodes[1].Value.RY != 5 {
		t.Errorf("trigger node value = %+v", v.Nodes[1].Value)
	}
	if v.Arrange != "LR" || v.Width != "100%" || v.Height != "800" {
		t.Errorf("layout = %s %s %s", v.Arrange, v.Width, v.Height)
	}
	if v.LastRefreshedAt == nil || !v.LastRefreshedAt.Equal(refreshed) {
		t.Errorf("last refreshed = %v", v.LastRefreshedAt)
	}
	if v.Stale || v.Warning != "" || !v.Acyclic {
		t.Errorf("unexpected flags stale=%v warning=%q acyclic=%v", v.Stale, v.Warning, v.Acyclic)
	}
}

func TestRenderImplicitAndSensor(t *testing.T) {
	snap := snapshotOf(
		workflow.Definition{ID: "C", ImplicitDependencies: []string{"D"}},
		workflow.Definition{ID: "E", Tasks: []workflow.Task{workflow.NewSensorTask("wait", "C")}},
	)
	v := Render("t", snap, defaultParams(), nil)

	styles := map[string]NodeValue{}
	for _, n := range v.Nodes {
		styles[n.ID] = n.Value
	}
	imp, ok := styles["[i]C#D"]
	if !ok || imp.Label != "implicit" || imp.Style != "fill: rgb(240, 240, 240);" {
		t.Errorf("implicit node = %+v (found %v)", imp, ok)
	}
	if styles["[t]E#wait"].Style != "fill: rgb(230, 241, 242);" {
		t.Errorf("sensor style = %q", styles["[t]E#wait"].Style)
	}
	if styles["[d]D"].Style != "fill: rgb(232, 247, 228);" {
		t.Errorf("workflow style = %q", styles["[d]D"].Style)
	}
}

func TestRenderStaleAndUnbuilt(t *testing.T) {
	snap := snapshotOf(workflow.Definition{ID: "A"})
	v := Render("t", snap, defaultParams(), fmt.Errorf("definition store offline"))
	if !v.Stale || !strings.Contains(v.Warning, "definition store offline") {
		t.Errorf("stale view = %+v", v)
	}

	empty := Render("t", &graphcache.Snapshot{}, defaultParams(), nil)
	if empty.LastRefreshedAt != nil || len(empty.Nodes) != 0 || empty.Nodes == nil {
		t.Errorf("unbuilt view = %+v", empty)
	}
}

func TestRenderReportsCycles(t *testing.T) {
	snap := snapshotOf(
		workflow.Definition{ID: "A", Tasks: []workflow.Task{workflow.NewTriggerTask("go", "B")}},
		workflow.Definition{ID: "B", Tasks: []workflow.Task{workflow.NewTriggerTask("back", "A")}},
	)
	v := Render("t", snap, defaultParams(), nil)
	if v.Acyclic || len(v.Cyclic) != 4 {
		t.Errorf("acyclic=%v cyclic=%v", v.Acyclic, v.Cyclic)
	}
}

func TestViewJSON(t *testing.T) {
	v := Render("t", snapshotOf(workflow.Definition{ID: "A"}), defaultParams(), nil)
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{
		`"nodes":[{"id":"[d]A","value":{"label":"A","style":"fill: rgb(232, 247, 228);","rx":5,"ry":5}}]`,
		`"edges":[]`,
		`"arrange":"LR"`,
		`"last_refreshed_at":"2026-03-01T12:00:00Z"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json missing %s:\n%s", want, data)
		}
	}
}

func TestLayerReport(t *testing.T) {
	g := depgraph.Build([]workflow.Definition{
		{ID: "A", Tasks: []workflow.Task{workflow.NewTriggerTask("t1", "B")}},
		{ID: "B"},
	})
	got := fmt.Sprint(LayerReport(g))
	if got != "[[[d]A] [[t]A#t1] [[d]B]]" {
		t.Errorf("layers = %s", got)
	}
}

func TestParams(t *testing.T) {
	defaults := defaultParams()

	merged := Params{Width: "50%"}.Merge(defaults)
	if merged.Orientation != "LR" || merged.Width != "50%" || merged.Height != "800" {
		t.Errorf("merged = %+v", merged)
	}

	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{"defaults", defaults, ""},
		{"pixels", Params{Orientation: "TB", Width: "1200px", Height: "600px"}, ""},
		{"bad orientation", Params{Orientation: "XY"}, "orientation"},
		{"bad width", Params{Width: "wide"}, "width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Orientation: "XY"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid orientation to fail")
	}
	ok := Config{}
	ok.ApplyDefaults()
	if err := ok.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
