package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ytget/anchorswipe/internal/config"
	"github.com/ytget/anchorswipe/internal/model"
)

// ErrInvalidScript is returned for scripts that cannot be replayed
var ErrInvalidScript = errors.New("invalid gesture script")

// AnchorSpec is one anchor of a custom anchor set
type AnchorSpec struct {
	Label  model.StateLabel `yaml:"label"`
	Offset float64          `yaml:"offset"`
}

// Script is a recorded or hand-written gesture sequence
type Script struct {
	Travel  float64            `yaml:"travel"`
	Anchors []AnchorSpec       `yaml:"anchors"`
	Initial model.StateLabel   `yaml:"initial"`
	Veto    []model.StateLabel `yaml:"veto"`
	FrameMS int                `yaml:"frame_ms"`
	Profile *config.Profile    `yaml:"profile"`
	Steps   []Step             `yaml:"steps"`
}

// Step is a single gesture or API call. Exactly one field is set.
type Step struct {
	Drag     *float64         `yaml:"drag,omitempty"`
	Release  *float64         `yaml:"release,omitempty"`
	Open     bool             `yaml:"open,omitempty"`
	Close    bool             `yaml:"close,omitempty"`
	Snap     model.StateLabel `yaml:"snap,omitempty"`
	Animate  model.StateLabel `yaml:"animate,omitempty"`
	Frames   int              `yaml:"frames,omitempty"`
	Reanchor float64          `yaml:"reanchor,omitempty"`
}

// UnmarshalYAML accepts the bare scalars "open" and "close" as steps
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch node.Value {
		case "open":
			*s = Step{Open: true}
		case "close":
			*s = Step{Close: true}
		default:
			return fmt.Errorf("%w: line %d: unknown step %q", ErrInvalidScript, node.Line, node.Value)
		}
		return nil
	}

	type plain Step
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Step(p)
	return nil
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Drag != nil, s.Release != nil, s.Open, s.Close,
		s.Snap != "", s.Animate != "", s.Frames > 0, s.Reanchor > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

// String describes the step for reports
func (s Step) String() string {
	switch {
	case s.Drag != nil:
		return fmt.Sprintf("drag(%g)", *s.Drag)
	case s.Release != nil:
		return fmt.Sprintf("release(%g)", *s.Release)
	case s.Open:
		return "open"
	case s.Close:
		return "close"
	case s.Snap != "":
		return fmt.Sprintf("snap(%s)", s.Snap)
	case s.Animate != "":
		return fmt.Sprintf("animate(%s)", s.Animate)
	case s.Frames > 0:
		return fmt.Sprintf("frames(%d)", s.Frames)
	case s.Reanchor > 0:
		return fmt.Sprintf("reanchor(%g)", s.Reanchor)
	}
	return "noop"
}

// Load decodes and validates a script
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScript)
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads a script from path
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Validate checks the anchor definition, the profile and every step
func (sc *Script) Validate() error {
	if _, err := sc.AnchorSet(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if sc.FrameMS < 0 {
		return fmt.Errorf("%w: frame_ms %d is negative", ErrInvalidScript, sc.FrameMS)
	}
	if sc.Profile != nil {
		if err := sc.Profile.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}
	}
	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("%w: step %d has %d actions", ErrInvalidScript, i, n)
		}
	}
	return nil
}

// AnchorSet builds the anchors: explicit anchors win over travel
func (sc *Script) AnchorSet() (*model.AnchorSet, error) {
	if len(sc.Anchors) == 0 {
		return model.NewDrawerAnchors(sc.Travel)
	}

	anchors := make([]model.Anchor, len(sc.Anchors))
	for i, a := range sc.Anchors {
		anchors[i] = model.Anchor{Label: a.Label, Offset: a.Offset}
	}
	return model.NewAnchorSet(anchors...)
}
