package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/qmuntal/gltf"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Loader loads a model file into a scene node.
type Loader interface {
	Load(ctx context.Context, path string) (*Node, error)
}

// GLTFLoader reads .glb and .gltf files and extracts their bounds.
type GLTFLoader struct{}

// NewGLTFLoader creates a glTF loader.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// Load parses the model and computes the bounding box of its default scene.
func (loader *GLTFLoader) Load(ctx context.Context, path string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkModelType(path); err != nil {
		return nil, err
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}

	bounds, meshes, err := documentBounds(doc)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}

	node := NewNode(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), path, bounds)
	node.Meshes = meshes
	return node, nil
}

func checkModelType(path string) error {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect model type: %w", err)
	}

	var accepted []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		accepted = []string{"model/gltf-binary"}
	case ".gltf":
		accepted = []string{"model/gltf+json", "application/json"}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAsset, filepath.Base(path))
	}

	for mime := detected; mime != nil; mime = mime.Parent() {
		for _, want := range accepted {
			if mime.Is(want) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s is %s", ErrUnsupportedAsset, filepath.Base(path), detected.String())
}

type transform func(r3.Vec) r3.Vec

func documentBounds(doc *gltf.Document) (r3.Box, int, error) {
	roots := rootNodes(doc)
	var (
		box    r3.Box
		found  bool
		meshes int
	)

	var walk func(index int, parents []transform)
	walk = func(index int, parents []transform) {
		if index < 0 || index >= len(doc.Nodes) {
			return
		}
		node := doc.Nodes[index]
		chain := append([]transform{nodeTransform(node)}, parents...)

		if node.Mesh != nil && *node.Mesh >= 0 && *node.Mesh < len(doc.Meshes) {
			meshes++
			for _, local := range meshBounds(doc, doc.Meshes[*node.Mesh]) {
				for _, corner := range corners(local) {
					point := corner
					for _, step := range chain {
						point = step(point)
					}
					if !found {
						box = r3.Box{Min: point, Max: point}
						found = true
						continue
					}
					box = extend(box, point)
				}
			}
		}
		for _, child := range node.Children {
			walk(child, chain)
		}
	}

	for _, root := range roots {
		walk(root, nil)
	}
	if !found {
		return r3.Box{}, meshes, fmt.Errorf("%w: no mesh positions", ErrUnsupportedAsset)
	}
	return box, meshes, nil
}

func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		index := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			index = *doc.Scene
		}
		return doc.Scenes[index].Nodes
	}

	// Without scenes every node that is nobody's child is a root.
	isChild := make(map[int]bool)
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			isChild[child] = true
		}
	}
	var roots []int
	for index := range doc.Nodes {
		if !isChild[index] {
			roots = append(roots, index)
		}
	}
	return roots
}

func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) []r3.Box {
	var boxes []r3.Box
	for _, primitive := range mesh.Primitives {
		index, ok := primitive.Attributes[gltf.POSITION]
		if !ok || index < 0 || index >= len(doc.Accessors) {
			continue
		}
		accessor := doc.Accessors[index]
		if len(accessor.Min) < 3 || len(accessor.Max) < 3 {
			continue
		}
		boxes = append(boxes, r3.Box{
			Min: r3.Vec{X: accessor.Min[0], Y: accessor.Min[1], Z: accessor.Min[2]},
			Max: r3.Vec{X: accessor.Max[0], Y: accessor.Max[1], Z: accessor.Max[2]},
		})
	}
	return boxes
}

var identity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func nodeTransform(node *gltf.Node) transform {
	matrix := node.MatrixOrDefault()
	if matrix != identity {
		return func(p r3.Vec) r3.Vec {
			// Column-major 4x4.
			return r3.Vec{
				X: matrix[0]*p.X + matrix[4]*p.Y + matrix[8]*p.Z + matrix[12],
				Y: matrix[1]*p.X + matrix[5]*p.Y + matrix[9]*p.Z + matrix[13],
				Z: matrix[2]*p.X + matrix[6]*p.Y + matrix[10]*p.Z + matrix[14],
			}
		}
	}

	translation := node.TranslationOrDefault()
	rotation := node.RotationOrDefault()
	scale := node.ScaleOrDefault()
	quaternion := r3.Rotation(quat.Number{Real: rotation[3], Imag: rotation[0], Jmag: rotation[1], Kmag: rotation[2]})
	offset := r3.Vec{X: translation[0], Y: translation[1], Z: translation[2]}
	return func(p r3.Vec) r3.Vec {
		scaled := r3.Vec{X: p.X * scale[0], Y: p.Y * scale[1], Z: p.Z * scale[2]}
		return r3.Add(quaternion.Rotate(scaled), offset)
	}
}
