package scene

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-9

func assertVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, epsilon, "X")
	assert.InDelta(t, want.Y, got.Y, epsilon, "Y")
	assert.InDelta(t, want.Z, got.Z, epsilon, "Z")
}

func TestBoundingCenterAppliesPlacement(t *testing.T) {
	node := NewNode("box", "box.glb", r3.Box{
		Min: r3.Vec{X: 2, Y: 0, Z: -1},
		Max: r3.Vec{X: 4, Y: 2, Z: 1},
	})
	assertVec(t, r3.Vec{X: 3, Y: 1, Z: 0}, BoundingCenter(node))

	node.Scale = r3.Vec{X: 2, Y: 2, Z: 2}
	node.Position = r3.Vec{Y: 5}
	assertVec(t, r3.Vec{X: 6, Y: 7, Z: 0}, BoundingCenter(node))

	node.Scale = r3.Vec{X: 1, Y: 1, Z: 1}
	node.Position = r3.Vec{}
	node.RotationY = math.Pi / 2
	// A quarter turn about Y maps +X onto -Z.
	assertVec(t, r3.Vec{X: 0, Y: 1, Z: -3}, BoundingCenter(node))
}

func TestRecenter(t *testing.T) {
	node := NewNode("box", "box.glb", r3.Box{
		Min: r3.Vec{X: 1, Y: 1, Z: 1},
		Max: r3.Vec{X: 3, Y: 5, Z: 7},
	})
	Recenter(node)
	assertVec(t, r3.Vec{X: -2, Y: -3, Z: -4}, node.Position)
	assertVec(t, r3.Vec{}, BoundingCenter(node))
}

func TestPlaceCompanion(t *testing.T) {
	node := NewNode("yoga_pose", "yoga_pose.glb", r3.Box{
		Min: r3.Vec{X: -1, Y: 0, Z: -1},
		Max: r3.Vec{X: 1, Y: 10, Z: 3},
	})
	PlaceCompanion(node)

	assert.InDelta(t, CompanionScale, node.Scale.X, epsilon)
	assert.InDelta(t, -(math.Pi / 2.3), node.RotationY, epsilon)
	assert.Equal(t, float64(CompanionX), node.Position.X)
	assert.Equal(t, float64(CompanionY), node.Position.Y)

	unplaced := NewNode("yoga_pose", "yoga_pose.glb", node.Bounds)
	unplaced.Scale = node.Scale
	unplaced.RotationY = node.RotationY
	assert.InDelta(t, -BoundingCenter(unplaced).Z, node.Position.Z, epsilon)
}

func TestSceneAddRemove(t *testing.T) {
	scene := New()
	first := NewNode("a", "a.glb", r3.Box{})
	second := NewNode("b", "b.glb", r3.Box{})

	scene.Add(first)
	scene.Add(second)
	scene.Add(nil)
	assert.Len(t, scene.Nodes(), 2)

	assert.True(t, scene.Remove(first))
	assert.False(t, scene.Remove(first))
	assert.Equal(t, []*Node{second}, scene.Nodes())
}

func TestSetEnvironment(t *testing.T) {
	dir := t.TempDir()
	hdr := filepath.Join(dir, "calm.hdr")
	require.NoError(t, os.WriteFile(hdr, []byte("#?RADIANCE\n"), 0o644))

	scene := New()
	require.NoError(t, scene.SetEnvironment(hdr))
	assert.Equal(t, hdr, scene.Environment())

	err := scene.SetEnvironment(filepath.Join(dir, "sky.jpg"))
	assert.ErrorIs(t, err, ErrUnsupportedAsset)

	err = scene.SetEnvironment(filepath.Join(dir, "missing.hdr"))
	assert.Error(t, err)
	assert.Equal(t, hdr, scene.Environment())
}

type fakeLoader struct {
	nodes map[string]r3.Box
	fail  map[string]error
	calls []string
}

func (loader *fakeLoader) Load(_ context.Context, path string) (*Node, error) {
	loader.calls = append(loader.calls, path)
	if err, ok := loader.fail[path]; ok {
		return nil, err
	}
	bounds, ok := loader.nodes[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return NewNode(path, path, bounds), nil
}

func TestComposerLoadsBaseThenCompanion(t *testing.T) {
	loader := &fakeLoader{nodes: map[string]r3.Box{
		"crystal.glb":   {Min: r3.Vec{X: 0, Y: 0, Z: 0}, Max: r3.Vec{X: 2, Y: 4, Z: 6}},
		"yoga_pose.glb": {Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}},
		"lotus.glb":     {Min: r3.Vec{X: 1, Y: 1, Z: 1}, Max: r3.Vec{X: 3, Y: 3, Z: 3}},
	}}
	scene := New()
	composer := NewComposer(scene, loader, "yoga_pose.glb", nil)

	base, err := composer.LoadBase(context.Background(), "crystal.glb")
	require.NoError(t, err)
	assertVec(t, r3.Vec{X: -1, Y: -2, Z: -3}, base.Position)
	assert.Equal(t, []string{"crystal.glb", "yoga_pose.glb"}, loader.calls)
	require.Len(t, scene.Nodes(), 2)
	assert.Equal(t, float64(CompanionX), composer.Companion().Position.X)

	_, err = composer.LoadBase(context.Background(), "lotus.glb")
	require.NoError(t, err)
	nodes := scene.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "lotus.glb", nodes[0].Source)
	assert.Equal(t, "yoga_pose.glb", nodes[1].Source)
}

func TestComposerBaseFailureLeavesSceneEmpty(t *testing.T) {
	loader := &fakeLoader{
		nodes: map[string]r3.Box{"crystal.glb": {Max: r3.Vec{X: 1, Y: 1, Z: 1}}, "yoga_pose.glb": {}},
		fail:  map[string]error{"broken.glb": errors.New("truncated")},
	}
	scene := New()
	composer := NewComposer(scene, loader, "yoga_pose.glb", nil)

	_, err := composer.LoadBase(context.Background(), "crystal.glb")
	require.NoError(t, err)

	_, err = composer.LoadBase(context.Background(), "broken.glb")
	assert.ErrorContains(t, err, "truncated")
	assert.Empty(t, scene.Nodes())
	assert.Nil(t, composer.Base())
}

func TestComposerCompanionFailureKeepsBase(t *testing.T) {
	loader := &fakeLoader{
		nodes: map[string]r3.Box{"crystal.glb": {Max: r3.Vec{X: 1, Y: 1, Z: 1}}},
		fail:  map[string]error{"yoga_pose.glb": errors.New("missing")},
	}
	scene := New()
	composer := NewComposer(scene, loader, "yoga_pose.glb", nil)

	base, err := composer.LoadBase(context.Background(), "crystal.glb")
	require.NoError(t, err)
	assert.Equal(t, []*Node{base}, scene.Nodes())
	assert.Nil(t, composer.Companion())
}
