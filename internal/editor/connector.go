// Package editor turns map clicks into water-feature edits: it snaps a
// screen position to the nearest hex center or edge connector and toggles
// the matching crossing feature, reporting outcomes through a notification
// sink instead of return values.
package editor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/hexcrawl/internal/hexgrid"
	"github.com/talgya/hexcrawl/internal/water"
)

// Notifier is the user-notification sink. Fire and forget.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

// LogNotifier routes notifications to slog. The default sink when no UI is
// attached.
type LogNotifier struct{}

func (LogNotifier) Info(msg string) { slog.Info(msg) }
func (LogNotifier) Warn(msg string) { slog.Warn(msg) }

// ConnectorKind distinguishes a hex-center hit from an edge hit.
type ConnectorKind int

const (
	ConnectorCenter ConnectorKind = iota
	ConnectorEdge
)

// Connector is the snapped target of a click: the hex center or one of its
// six edges.
type Connector struct {
	Kind ConnectorKind
	Hex  hexgrid.OffsetCoord
	Edge int // valid when Kind == ConnectorEdge
	Pos  hexgrid.Point
}

// Editor resolves clicks against the grid geometry and toggles crossing
// features.
type Editor struct {
	water     *water.Service
	topo      hexgrid.Topology
	notify    Notifier
	threshold float64 // max snap distance in pixels
}

// New creates an editor. A nil notifier falls back to LogNotifier.
func New(svc *water.Service, topo hexgrid.Topology, notify Notifier, threshold float64) *Editor {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Editor{water: svc, topo: topo, notify: notify, threshold: threshold}
}

// ResolveConnector snaps a click near the given hex to its center or the
// nearest of its six edges. Returns false when the hex is unknown, off-grid,
// or the click lands farther than the snap threshold from every connector.
func (e *Editor) ResolveConnector(hexID string, click hexgrid.Point) (Connector, bool) {
	c, err := hexgrid.ParseHexID(hexID)
	if err != nil {
		return Connector{}, false
	}
	center, ok := e.topo.Center(c)
	if !ok {
		return Connector{}, false
	}
	edges, _ := e.topo.EdgeMidpoints(c)

	best := Connector{Kind: ConnectorCenter, Hex: c, Pos: center}
	bestDist := dist(click, center)
	for k, p := range edges {
		if d := dist(click, p); d < bestDist {
			bestDist = d
			best = Connector{Kind: ConnectorEdge, Hex: c, Edge: k, Pos: p}
		}
	}
	if bestDist > e.threshold {
		return Connector{}, false
	}
	return best, true
}

// HandleBridgeClick toggles a bridge at the clicked edge.
func (e *Editor) HandleBridgeClick(hexID string, click hexgrid.Point) {
	e.handleCrossingClick(water.CrossingBridge, hexID, click)
}

// HandleFordClick toggles a ford at the clicked edge.
func (e *Editor) HandleFordClick(hexID string, click hexgrid.Point) {
	e.handleCrossingClick(water.CrossingFord, hexID, click)
}

// HandleWaterfallClick toggles a waterfall at the clicked edge.
func (e *Editor) HandleWaterfallClick(hexID string, click hexgrid.Point) {
	e.handleCrossingClick(water.CrossingWaterfall, hexID, click)
}

func (e *Editor) handleCrossingClick(kind water.CrossingKind, hexID string, click hexgrid.Point) {
	conn, ok := e.ResolveConnector(hexID, click)
	if !ok {
		e.notify.Warn("click closer to a hex edge to place a " + string(kind))
		return
	}
	if conn.Kind == ConnectorCenter {
		e.notify.Warn(fmt.Sprintf("a %s sits on a hex edge, not the center", kind))
		return
	}

	var (
		result water.ToggleResult
		err    error
	)
	switch kind {
	case water.CrossingBridge:
		result, err = e.water.ToggleBridge(conn.Hex.I, conn.Hex.J, conn.Edge)
	case water.CrossingFord:
		result, err = e.water.ToggleFord(conn.Hex.I, conn.Hex.J, conn.Edge)
	default:
		result, err = e.water.ToggleWaterfall(conn.Hex.I, conn.Hex.J, conn.Edge)
	}
	if err != nil {
		slog.Error("crossing toggle failed", "kind", kind, "hex", hexID, "error", err)
		e.notify.Warn(fmt.Sprintf("could not update %s at %s", kind, hexID))
		return
	}

	switch result {
	case water.Added:
		e.notify.Info(fmt.Sprintf("%s added at %s edge %d", kind, conn.Hex.HexID(), conn.Edge))
	case water.Removed:
		e.notify.Info(fmt.Sprintf("%s removed at %s edge %d", kind, conn.Hex.HexID(), conn.Edge))
	case water.Refused:
		e.notify.Warn(fmt.Sprintf("edge %d of %s already holds another crossing", conn.Edge, conn.Hex.HexID()))
	}
}

func dist(a, b hexgrid.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
