package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glbBuilder assembles a minimal glTF document with one binary buffer.
type glbBuilder struct {
	bin       []byte
	views     []map[string]any
	accessors []map[string]any
}

func (b *glbBuilder) align() {
	for len(b.bin)%4 != 0 {
		b.bin = append(b.bin, 0)
	}
}

func (b *glbBuilder) add(raw []byte, componentType int, typ string, count int) int {
	b.align()
	b.views = append(b.views, map[string]any{"buffer": 0, "byteOffset": len(b.bin), "byteLength": len(raw)})
	b.bin = append(b.bin, raw...)
	b.accessors = append(b.accessors, map[string]any{
		"bufferView":    len(b.views) - 1,
		"componentType": componentType,
		"type":          typ,
		"count":         count,
	})
	return len(b.accessors) - 1
}

func (b *glbBuilder) floats(typ string, values ...float32) int {
	raw := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return b.add(raw, componentFloat, typ, len(values)/componentCount(typ))
}

func (b *glbBuilder) shorts(values ...uint16) int {
	raw := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[i*2:], v)
	}
	return b.add(raw, componentUnsignedShort, "SCALAR", len(values))
}

func (b *glbBuilder) ubytes(typ string, values ...uint8) int {
	return b.add(values, componentUnsignedByte, typ, len(values)/componentCount(typ))
}

func (b *glbBuilder) document(t *testing.T) map[string]any {
	t.Helper()
	pos := b.floats("VEC3", 0, 0, 0, 1, 0, 0, 0, 2, 0)
	idx := b.shorts(0, 1, 2)
	joints := b.ubytes("VEC4", 0, 1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0)
	weights := b.floats("VEC4", 1, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)
	smile := b.floats("VEC3", 0, 0, 0, 0, 0.5, 0, 0, 0, 0)

	ident := mgl32.Ident4()
	spineInv := mgl32.Translate3D(0, -1, 0)
	ibm := b.floats("MAT4", append(ident[:], spineInv[:]...)...)

	times := b.floats("SCALAR", 0, 1)
	hips := b.floats("VEC3", 0, 0, 0, 0, 3, 0)
	morph := b.floats("SCALAR", 0, 1)

	return map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"nodes": []map[string]any{
			{"name": "Armature", "scale": []float32{2, 2, 2}, "children": []int{1, 3}},
			{"name": "Hips", "children": []int{2}},
			{"name": "Spine", "translation": []float32{0, 1, 0}},
			{"name": "BodyNode", "mesh": 0, "skin": 0},
		},
		"meshes": []map[string]any{{
			"name":    "Body",
			"weights": []float32{0.25},
			"extras":  map[string]any{"targetNames": []string{"Smile"}},
			"primitives": []map[string]any{{
				"attributes": map[string]int{"POSITION": pos, "JOINTS_0": joints, "WEIGHTS_0": weights},
				"indices":    idx,
				"material":   0,
				"targets":    []map[string]int{{"POSITION": smile}},
			}},
		}},
		"materials": []map[string]any{{"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{1, 0, 0, 1}}}},
		"skins":     []map[string]any{{"joints": []int{1, 2}, "inverseBindMatrices": ibm}},
		"animations": []map[string]any{{
			"name": "mixamo.com",
			"samplers": []map[string]any{
				{"input": times, "output": hips},
				{"input": times, "output": morph},
			},
			"channels": []map[string]any{
				{"sampler": 0, "target": map[string]any{"node": 1, "path": "translation"}},
				{"sampler": 1, "target": map[string]any{"node": 3, "path": "weights"}},
			},
		}},
		"accessors":   b.accessors,
		"bufferViews": b.views,
	}
}

func buildGLB(t *testing.T) []byte {
	t.Helper()
	b := &glbBuilder{}
	doc := b.document(t)
	b.align()
	doc["buffers"] = []map[string]any{{"byteLength": len(b.bin)}}

	js, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(b.bin)
	for _, v := range []uint32{glbMagic, glbVersion, uint32(total), uint32(len(js)), glbChunkJSON} {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}
	out.Write(js)
	for _, v := range []uint32{uint32(len(b.bin)), glbChunkBIN} {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}
	out.Write(b.bin)
	return out.Bytes()
}

func TestLoadReaderImportsCharacter(t *testing.T) {
	l := NewLoader()
	m, err := l.LoadReader("Jumping", bytes.NewReader(buildGLB(t)))
	require.NoError(t, err)
	assert.Equal(t, "Jumping", m.Name)

	require.Len(t, m.Meshes, 1)
	mesh := m.Meshes[0]
	assert.Equal(t, "Body", mesh.Name)
	assert.True(t, mesh.Skinned)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, [4]uint32{0, 1, 0, 0}, mesh.Vertices[0].Joints)
	assert.InDelta(t, 0.5, mesh.Vertices[0].Weights[0], 1e-6, "weights are normalized")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Color)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, mesh.BoundingMax)

	require.Len(t, mesh.MorphTargets, 1)
	assert.Equal(t, "Smile", mesh.MorphTargets[0].Name)
	assert.Equal(t, []float32{0.25}, mesh.DefaultWeights)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, mesh.MorphTargets[0].PositionDeltas[1])

	require.NotNil(t, m.Skeleton)
	require.Len(t, m.Skeleton.Bones, 2)
	assert.Equal(t, "Hips", m.Skeleton.Bones[0].Name)
	assert.Equal(t, -1, m.Skeleton.Bones[0].Parent)
	assert.Equal(t, 0, m.Skeleton.Bones[1].Parent)
	assert.True(t, m.Skeleton.Root.ApproxEqual(mgl32.Scale3D(2, 2, 2)), "armature transform becomes the skeleton root")

	require.Len(t, m.Animations, 1)
	clip := m.Animations[0]
	assert.Equal(t, "mixamo.com", clip.Name)
	assert.Equal(t, float32(1), clip.Duration)
	require.Len(t, clip.Channels, 1)
	assert.Equal(t, "Hips", clip.Channels[0].Bone)
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, clip.Channels[0].PositionKeys[1].Value)
	require.Len(t, clip.MorphChannels, 1)
	assert.Equal(t, "Body", clip.MorphChannels[0].Mesh)
	assert.Equal(t, [][]float32{{0}, {1}}, clip.MorphChannels[0].Weights)
}

func TestLoadCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Fast Run.glb")
	require.NoError(t, os.WriteFile(path, buildGLB(t), 0o644))

	l := NewLoader()
	first, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Fast Run", first.Name)

	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	l.Evict(abs)
	third, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader()

	_, err := l.Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	_, err = l.LoadReader("junk", bytes.NewReader([]byte("definitely not a model")))
	assert.ErrorIs(t, err, ErrNotGLB)
}

func TestLoadGLTFWithDataURI(t *testing.T) {
	b := &glbBuilder{}
	doc := b.document(t)
	b.align()
	doc["buffers"] = []map[string]any{{
		"byteLength": len(b.bin),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.bin),
	}}
	js, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Samba Dancing.gltf")
	require.NoError(t, os.WriteFile(path, js, 0o644))

	m, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Meshes, 1)
	assert.Len(t, m.Animations, 1)
}

func TestWithModelSeedsCache(t *testing.T) {
	seeded := &model.ImportedModel{Name: "Arm Stretching"}
	l := NewLoader(WithModel("seeded", seeded))

	got, err := l.LoadReader("seeded", bytes.NewReader(nil))
	require.NoError(t, err, "cached entries are returned without reading")
	assert.Same(t, seeded, got)
	assert.Nil(t, l.Get("other"))
}
