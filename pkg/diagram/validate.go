package diagram

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/diagramkit/pkg/errors"
)

var idRule = validation.By(func(v any) error {
	s, _ := v.(string)
	return errors.ValidateID("id", s)
})

// Validate validates the attribute shape.
func (a Attribute) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Emphasis, validation.In(EmphasisNone, EmphasisPrimary, EmphasisForeign)),
	)
}

// Validate validates the node shape.
func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required, idRule),
		validation.Field(&n.Attributes),
	)
}

// Validate validates the edge shape.
func (e Edge) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.From, validation.Required),
		validation.Field(&e.To, validation.Required),
	)
}

// Validate validates the lane shape.
func (l Lane) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Actor, validation.Required, idRule),
	)
}

// Validate validates the step shape.
func (s Step) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Actor, validation.Required),
	)
}

// Validate checks the model shape and its referential integrity.
// It returns the first failure as an *errors.Error naming the offending id.
func (m *Model) Validate() error {
	if err := m.validateShape(); err != nil {
		return err
	}
	return m.validateRefs()
}

func (m *Model) validateShape() error {
	for i, n := range m.Nodes {
		if err := n.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "node %d (%q)", i, n.ID)
		}
	}
	for i, e := range m.Edges {
		if err := e.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "edge %d (%s->%s)", i, e.From, e.To)
		}
	}
	for i, l := range m.Lanes {
		if err := l.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "lane %d (%q)", i, l.Actor)
		}
	}
	for i, f := range m.Flows {
		for j, s := range f.Steps {
			if err := s.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidModel, err, "flow %d step %d", i, j)
			}
		}
	}
	return nil
}

func (m *Model) validateRefs() error {
	nodes := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return errors.NewRef(errors.ErrCodeDuplicateID, n.ID, "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	for _, e := range m.Edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := nodes[id]; !ok {
				return errors.NewRef(errors.ErrCodeUnknownNodeReference, id,
					"edge %s: unknown node %q", edgeName(e), id)
			}
		}
	}

	lanes := make(map[string]struct{}, len(m.Lanes))
	for _, l := range m.Lanes {
		if _, dup := lanes[l.Actor]; dup {
			return errors.NewRef(errors.ErrCodeDuplicateID, l.Actor, "duplicate lane actor %q", l.Actor)
		}
		lanes[l.Actor] = struct{}{}
	}
	for _, f := range m.Flows {
		for i, s := range f.Steps {
			if _, ok := lanes[s.Actor]; !ok {
				return errors.NewRef(errors.ErrCodeMissingLaneForActor, s.Actor,
					"flow %q step %d (%q): no lane for actor %q", f.Title, i, s.Text, s.Actor)
			}
		}
	}
	return nil
}

func edgeName(e Edge) string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}
