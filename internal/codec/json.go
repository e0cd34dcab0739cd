package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"forcemap/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return FormatJSON
}

type jsonSnapshot struct {
	Nodes []jsonNode    `json:"nodes"`
	Links []domain.Link `json:"links"`
}

// jsonNode leaves out coordinates the node does not have yet
type jsonNode struct {
	ID    domain.NodeID `json:"id"`
	Size  float64       `json:"size"`
	Color string        `json:"color"`
	Text  string        `json:"text"`
	X     *float64      `json:"x,omitempty"`
	Y     *float64      `json:"y,omitempty"`
	VX    *float64      `json:"vx,omitempty"`
	VY    *float64      `json:"vy,omitempty"`
}

func optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func velocity(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return optional(v)
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Parse imports a snapshot from JSON. Missing velocities are zero; missing
// coordinates leave the node unplaced.
func (c *JSONCodec) Parse(r io.Reader) (domain.Snapshot, error) {
	var doc jsonSnapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	snap := domain.NewSnapshot()
	for _, jn := range doc.Nodes {
		n := domain.NewNode(jn.ID, jn.Size, jn.Color, jn.Text)
		n.X = valueOr(jn.X, math.NaN())
		n.Y = valueOr(jn.Y, math.NaN())
		n.VX = valueOr(jn.VX, 0)
		n.VY = valueOr(jn.VY, 0)
		snap.AddNode(*n)
	}
	for _, l := range doc.Links {
		snap.AddLink(l)
	}
	return *snap, nil
}

// Export writes a snapshot as indented JSON in insertion order
func (c *JSONCodec) Export(snap domain.Snapshot, w io.Writer) error {
	doc := jsonSnapshot{
		Nodes: make([]jsonNode, 0, len(snap.Nodes)),
		Links: make([]domain.Link, 0, len(snap.Links)),
	}
	for _, n := range snap.Nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:    n.ID,
			Size:  n.Size,
			Color: n.Color,
			Text:  n.Text,
			X:     optional(n.X),
			Y:     optional(n.Y),
			VX:    velocity(n.VX),
			VY:    velocity(n.VY),
		})
	}
	doc.Links = append(doc.Links, snap.Links...)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
