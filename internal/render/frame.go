package render

import "forcemap/internal/domain"

// Frame is the drawn state of a scene at one instant
type Frame struct {
	Seq        uint64      `json:"seq"`
	Alpha      float64     `json:"alpha"`
	Active     bool        `json:"active"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background string      `json:"background"`
	Nodes      []FrameNode `json:"nodes"`
	Links      []FrameLink `json:"links"`
}

// FrameNode is a drawn node
type FrameNode struct {
	ID           domain.NodeID `json:"id"`
	X            float64       `json:"x"`
	Y            float64       `json:"y"`
	Size         float64       `json:"size"`
	Color        string        `json:"color"`
	Text         string        `json:"text"`
	LabelVisible bool          `json:"label_visible"`
}

// FrameLink is a drawn line between two node centres
type FrameLink struct {
	Key    string        `json:"key"`
	Source domain.NodeID `json:"source"`
	Target domain.NodeID `json:"target"`
	X1     float64       `json:"x1"`
	Y1     float64       `json:"y1"`
	X2     float64       `json:"x2"`
	Y2     float64       `json:"y2"`
}
