package editor

import (
	"forcemap/internal/domain"
	"forcemap/internal/interaction"
	"forcemap/internal/render"
	"forcemap/internal/simulation"
	"forcemap/internal/store"
)

// Default canvas and layout constants
const (
	DefaultWidth  = 960.0
	DefaultHeight = 500.0

	DefaultChargeStrength = -1000.0
	DefaultSpawnOffset    = 10.0
)

// DefaultHubID is the node important tasks link to and the anchor pulls
var DefaultHubID = domain.IntID(2)

// ForceOptions parameterises the forces registered on the engine
type ForceOptions struct {
	LinkDistance   float64
	LinkIterations int

	ChargeStrength    float64
	ChargeTheta       float64
	ChargeDistanceMin float64
	ChargeDistanceMax float64

	CenterEnabled  bool
	CenterX        float64
	CenterY        float64
	CenterStrength float64

	CollideEnabled bool
	CollidePadding float64

	AnchorEnabled  bool
	AnchorID       domain.NodeID
	AnchorX        float64
	AnchorY        float64
	AnchorStrength float64
}

// DefaultForceOptions mirrors the editor's stock layout: strong repulsion,
// centring on the canvas and a gentle pull of the hub toward the middle
func DefaultForceOptions() ForceOptions {
	return ForceOptions{
		LinkDistance:   simulation.DefaultLinkDistance,
		LinkIterations: 1,
		ChargeStrength: DefaultChargeStrength,
		ChargeTheta:    0.9,
		CenterEnabled:  true,
		CenterX:        DefaultWidth / 2,
		CenterY:        DefaultHeight / 2,
		CenterStrength: 1,
		AnchorEnabled:  true,
		AnchorID:       DefaultHubID,
		AnchorX:        DefaultWidth / 2,
		AnchorY:        DefaultHeight / 2,
		AnchorStrength: simulation.DefaultAnchorStrength,
	}
}

// Options configures an Editor
type Options struct {
	Viewport    render.Viewport
	Clamp       bool
	Background  string
	Simulation  simulation.Options
	Forces      ForceOptions
	Interaction interaction.Options
	IDs         store.IDGenerator
	Restore     store.RestoreOptions
}

// DefaultOptions returns a live 960x500 canvas with the stock forces
func DefaultOptions() Options {
	return Options{
		Viewport:   render.NewLiveViewport(DefaultWidth, DefaultHeight),
		Clamp:      true,
		Background: render.DefaultBackground,
		Simulation: simulation.DefaultOptions(),
		Forces:     DefaultForceOptions(),
		Interaction: interaction.Options{
			DragAlphaTarget: interaction.DefaultDragAlphaTarget,
			SpawnOffset:     DefaultSpawnOffset,
			HubID:           DefaultHubID,
		},
		Restore: store.DefaultRestoreOptions(),
	}
}
