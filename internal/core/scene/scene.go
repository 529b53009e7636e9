package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnsupportedAsset indicates a file that is not a usable model or environment map.
var ErrUnsupportedAsset = errors.New("unsupported asset")

// Node is a loaded asset placed in the scene.
type Node struct {
	Name      string
	Source    string
	Position  r3.Vec
	Scale     r3.Vec
	RotationY float64
	// Bounds is the asset's axis-aligned box before the node's own placement.
	Bounds r3.Box
	Meshes int
}

// NewNode creates a node with unit scale.
func NewNode(name, source string, bounds r3.Box) *Node {
	return &Node{
		Name:   name,
		Source: source,
		Scale:  r3.Vec{X: 1, Y: 1, Z: 1},
		Bounds: bounds,
	}
}

// WorldBounds returns the node's box after scale, rotation about Y and translation.
func (node *Node) WorldBounds() r3.Box {
	rotation := r3.NewRotation(node.RotationY, r3.Vec{Y: 1})
	var box r3.Box
	for index, corner := range corners(node.Bounds) {
		scaled := r3.Vec{X: corner.X * node.Scale.X, Y: corner.Y * node.Scale.Y, Z: corner.Z * node.Scale.Z}
		world := r3.Add(rotation.Rotate(scaled), node.Position)
		if index == 0 {
			box = r3.Box{Min: world, Max: world}
			continue
		}
		box = extend(box, world)
	}
	return box
}

// BoundingCenter returns the center of the node's world-space bounds.
func BoundingCenter(node *Node) r3.Vec {
	return center(node.WorldBounds())
}

// Recenter moves the node so that its bounding center sits at the origin.
func Recenter(node *Node) {
	node.Position = r3.Sub(node.Position, BoundingCenter(node))
}

// Scene holds the placed nodes and the environment map.
type Scene struct {
	mu          sync.RWMutex
	nodes       []*Node
	environment string
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add places a node in the scene.
func (scene *Scene) Add(node *Node) {
	if node == nil {
		return
	}
	scene.mu.Lock()
	defer scene.mu.Unlock()
	scene.nodes = append(scene.nodes, node)
}

// Remove takes a node out of the scene and reports whether it was present.
func (scene *Scene) Remove(node *Node) bool {
	scene.mu.Lock()
	defer scene.mu.Unlock()
	for index, candidate := range scene.nodes {
		if candidate == node {
			scene.nodes = append(scene.nodes[:index], scene.nodes[index+1:]...)
			return true
		}
	}
	return false
}

// Nodes returns a snapshot of the placed nodes.
func (scene *Scene) Nodes() []*Node {
	scene.mu.RLock()
	defer scene.mu.RUnlock()
	return append([]*Node(nil), scene.nodes...)
}

// SetEnvironment sets the equirectangular HDR used for background and lighting.
func (scene *Scene) SetEnvironment(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".hdr") {
		return fmt.Errorf("%w: environment %s is not an .hdr file", ErrUnsupportedAsset, path)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat environment: %w", err)
	}
	scene.mu.Lock()
	scene.environment = path
	scene.mu.Unlock()
	return nil
}

// Environment returns the active environment map path.
func (scene *Scene) Environment() string {
	scene.mu.RLock()
	defer scene.mu.RUnlock()
	return scene.environment
}

func corners(box r3.Box) []r3.Vec {
	return []r3.Vec{
		{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Min.Y, Z: box.Max.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Max.Z},
		{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z},
	}
}

func extend(box r3.Box, point r3.Vec) r3.Box {
	box.Min = r3.Vec{X: min(box.Min.X, point.X), Y: min(box.Min.Y, point.Y), Z: min(box.Min.Z, point.Z)}
	box.Max = r3.Vec{X: max(box.Max.X, point.X), Y: max(box.Max.Y, point.Y), Z: max(box.Max.Z, point.Z)}
	return box
}

func center(box r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(box.Min, box.Max))
}
