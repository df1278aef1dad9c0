package diagram

import (
	"testing"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
)

func erdModel() *Model {
	return &Model{
		Nodes: []Node{
			{ID: "A", Category: "Core", Position: geom.Pt(1, 4)},
			{ID: "B", Category: "Core", Position: geom.Pt(3, 4)},
		},
		Edges: []Edge{{From: "A", To: "B", Label: "1:1"}},
	}
}

func laneModel() *Model {
	return &Model{
		Lanes: []Lane{{Actor: "Student", Row: 4}, {Actor: "System", Row: 3}},
		Flows: []Flow{{
			Title: "Login",
			Steps: []Step{
				{Actor: "Student", Text: "Login", X: 1},
				{Actor: "System", Text: "Create Request", X: 3},
			},
		}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		model    func() *Model
		wantCode errors.Code
		wantRef  string
	}{
		{
			name:  "ValidEntity",
			model: erdModel,
		},
		{
			name:  "ValidSwimlane",
			model: laneModel,
		},
		{
			name:  "Empty",
			model: func() *Model { return &Model{} },
		},
		{
			name: "SelfLoopAccepted",
			model: func() *Model {
				m := erdModel()
				m.Edges = append(m.Edges, Edge{From: "A", To: "A"})
				return m
			},
		},
		{
			name: "UnknownTarget",
			model: func() *Model {
				m := erdModel()
				m.Edges = append(m.Edges, Edge{From: "A", To: "Ghost"})
				return m
			},
			wantCode: errors.ErrCodeUnknownNodeReference,
			wantRef:  "Ghost",
		},
		{
			name: "UnknownSource",
			model: func() *Model {
				m := erdModel()
				m.Edges = []Edge{{From: "Ghost", To: "B"}}
				return m
			},
			wantCode: errors.ErrCodeUnknownNodeReference,
			wantRef:  "Ghost",
		},
		{
			name: "DuplicateNode",
			model: func() *Model {
				m := erdModel()
				m.Nodes = append(m.Nodes, Node{ID: "A"})
				return m
			},
			wantCode: errors.ErrCodeDuplicateID,
			wantRef:  "A",
		},
		{
			name: "MissingLane",
			model: func() *Model {
				m := laneModel()
				m.Flows[0].Steps = append(m.Flows[0].Steps, Step{Actor: "Alumni", Text: "Mentor", X: 5})
				return m
			},
			wantCode: errors.ErrCodeMissingLaneForActor,
			wantRef:  "Alumni",
		},
		{
			name: "DuplicateLane",
			model: func() *Model {
				m := laneModel()
				m.Lanes = append(m.Lanes, Lane{Actor: "System", Row: 0})
				return m
			},
			wantCode: errors.ErrCodeDuplicateID,
			wantRef:  "System",
		},
		{
			name: "EmptyNodeID",
			model: func() *Model {
				m := erdModel()
				m.Nodes = append(m.Nodes, Node{ID: ""})
				return m
			},
			wantCode: errors.ErrCodeInvalidModel,
		},
		{
			name: "EmptyFlowAccepted",
			model: func() *Model {
				m := laneModel()
				m.Flows = append(m.Flows, Flow{Title: "Nothing"})
				return m
			},
		},
		{
			name: "BadEmphasis",
			model: func() *Model {
				m := erdModel()
				m.Nodes[0].Attributes = []Attribute{{Name: "id", Emphasis: "bold"}}
				return m
			},
			wantCode: errors.ErrCodeInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model().Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %s", tt.wantCode)
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.wantCode, err)
			}
			if tt.wantRef != "" {
				if got := errors.GetRef(err); got != tt.wantRef {
					t.Errorf("ref = %q, want %q", got, tt.wantRef)
				}
			}
		})
	}
}

func TestInferEmphasis(t *testing.T) {
	tests := []struct {
		in   string
		want Emphasis
	}{
		{"student_id (PK)", EmphasisPrimary},
		{"user_id (FK)", EmphasisForeign},
		{"email", EmphasisNone},
		{"  id (PK)  ", EmphasisPrimary},
		{"(PK) first", EmphasisNone},
	}
	for _, tt := range tests {
		if got := InferEmphasis(tt.in); got != tt.want {
			t.Errorf("InferEmphasis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModelLookups(t *testing.T) {
	m := laneModel()
	m.Nodes = []Node{{ID: "api"}}
	if _, ok := m.Lane("System"); !ok {
		t.Error("Lane(System) not found")
	}
	if _, ok := m.Lane("Ghost"); ok {
		t.Error("Lane(Ghost) found")
	}
	if _, ok := m.Node("api"); !ok {
		t.Error("Node(api) not found")
	}
	if m.HasDecision() {
		t.Error("HasDecision() = true, want false")
	}
	m.Flows[0].Steps[1].Decision = true
	if !m.HasDecision() {
		t.Error("HasDecision() = false, want true")
	}
	if got := m.Kind(); got != "mixed" {
		t.Errorf("Kind() = %q, want mixed", got)
	}
}
