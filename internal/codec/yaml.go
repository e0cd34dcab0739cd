package codec

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"forcemap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export with the same fields as JSON
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// yamlID keeps integer and string identifiers apart: 1 is an int, "1" a string
type yamlID struct {
	domain.NodeID
}

func (id yamlID) MarshalYAML() (any, error) {
	if v, ok := id.Int(); ok {
		return v, nil
	}
	if id.IsNumeric() {
		return strconv.ParseFloat(id.String(), 64)
	}
	return id.String(), nil
}

func (id *yamlID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: identifier must be a scalar", value.Line)
	}
	if value.Tag == "!!int" || value.Tag == "!!float" {
		parsed, err := domain.NumberID(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		id.NodeID = parsed
		return nil
	}
	id.NodeID = domain.StringID(value.Value)
	return nil
}

// yamlSnapshot represents the YAML structure for snapshot data
type yamlSnapshot struct {
	Nodes []yamlNode `yaml:"nodes"`
	Links []yamlLink `yaml:"links"`
}

type yamlNode struct {
	ID    yamlID   `yaml:"id"`
	Size  float64  `yaml:"size"`
	Color string   `yaml:"color"`
	Text  string   `yaml:"text"`
	X     *float64 `yaml:"x,omitempty"`
	Y     *float64 `yaml:"y,omitempty"`
	VX    *float64 `yaml:"vx,omitempty"`
	VY    *float64 `yaml:"vy,omitempty"`
}

type yamlLink struct {
	Source yamlID `yaml:"source"`
	Target yamlID `yaml:"target"`
}

// Parse imports a snapshot from YAML
func (c *YAMLCodec) Parse(r io.Reader) (domain.Snapshot, error) {
	var ys yamlSnapshot
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ys); err != nil && err != io.EOF {
		return domain.Snapshot{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	snap := domain.NewSnapshot()
	for _, yn := range ys.Nodes {
		n := domain.NewNode(yn.ID.NodeID, yn.Size, yn.Color, yn.Text)
		n.X = valueOr(yn.X, math.NaN())
		n.Y = valueOr(yn.Y, math.NaN())
		n.VX = valueOr(yn.VX, 0)
		n.VY = valueOr(yn.VY, 0)
		snap.AddNode(*n)
	}
	for _, yl := range ys.Links {
		snap.AddLink(domain.NewLink(yl.Source.NodeID, yl.Target.NodeID))
	}
	return *snap, nil
}

// Export exports a snapshot to YAML
func (c *YAMLCodec) Export(snap domain.Snapshot, w io.Writer) error {
	ys := yamlSnapshot{
		Nodes: make([]yamlNode, 0, len(snap.Nodes)),
		Links: make([]yamlLink, 0, len(snap.Links)),
	}
	for _, n := range snap.Nodes {
		ys.Nodes = append(ys.Nodes, yamlNode{
			ID:    yamlID{n.ID},
			Size:  n.Size,
			Color: n.Color,
			Text:  n.Text,
			X:     optional(n.X),
			Y:     optional(n.Y),
			VX:    velocity(n.VX),
			VY:    velocity(n.VY),
		})
	}
	for _, l := range snap.Links {
		ys.Links = append(ys.Links, yamlLink{Source: yamlID{l.Source}, Target: yamlID{l.Target}})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(ys); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
