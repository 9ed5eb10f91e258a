package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-character/engine/camera"
	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/Carmen-Shannon/oxy-character/engine/model"
	"github.com/Carmen-Shannon/oxy-character/engine/scene"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuffer struct {
	label    string
	size     int
	released bool
}

func (b *fakeBuffer) Release() {
	b.released = true
}

type fakeBackend struct {
	buffers  []*fakeBuffer
	writes   map[*fakeBuffer][]byte
	uniforms []byte
	frames   [][]drawCommand
	width    int
	height   int
	clear    [3]float64
	released bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{writes: make(map[*fakeBuffer][]byte)}
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.width, f.height = width, height
}

func (f *fakeBackend) SetClearColor(r, g, b float64) {
	f.clear = [3]float64{r, g, b}
}

func (f *fakeBackend) CreateBuffer(label string, size int, _ bufferUsage, data []byte) (gpuBuffer, error) {
	b := &fakeBuffer{label: label, size: size}
	f.buffers = append(f.buffers, b)
	if data != nil {
		f.writes[b] = data
	}
	return b, nil
}

func (f *fakeBackend) WriteBuffer(buf gpuBuffer, data []byte) {
	f.writes[buf.(*fakeBuffer)] = data
}

func (f *fakeBackend) WriteFrameUniforms(data []byte) {
	f.uniforms = data
}

func (f *fakeBackend) Frame(commands []drawCommand) error {
	f.frames = append(f.frames, commands)
	return nil
}

func (f *fakeBackend) Release() {
	f.released = true
}

func (f *fakeBackend) live() int {
	n := 0
	for _, b := range f.buffers {
		if !b.released {
			n++
		}
	}
	return n
}

func testCamera() camera.Camera {
	ctrl := camera.NewCameraController(
		camera.WithEye(mgl32.Vec3{500, 300, 0}),
		camera.WithTarget(mgl32.Vec3{0, 0, 0}),
	)
	return camera.NewCamera(camera.WithAspect(1), camera.WithClip(1, 5000), camera.WithController(ctrl))
}

func obstacleAt(center mgl32.Vec3) scene.Obstacle {
	size := mgl32.Vec3{100, 20, 100}
	lo, hi := center.Sub(size.Mul(0.5)), center.Add(size.Mul(0.5))
	return scene.Obstacle{
		Center: center,
		Size:   size,
		Color:  mgl32.Vec3{0.5, 0.5, 1},
		Box:    cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z()),
	}
}

func testScene() scene.Scene {
	return scene.NewScene(
		scene.WithSeed(1),
		scene.WithGridDivisions(2),
		scene.WithObstacleList(
			obstacleAt(mgl32.Vec3{0, 10, 0}),
			obstacleAt(mgl32.Vec3{4000, 10, 0}),
		),
	)
}

func testCharacter() game_object.GameObject {
	return game_object.NewGameObject(game_object.WithModel(&model.ImportedModel{
		Name: "Samba Dancing",
		Meshes: []model.ImportedMesh{{
			Name: "Body",
			Vertices: []model.Vertex{
				{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
				{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}},
				{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}},
			},
			Indices: []uint32{0, 1, 2},
			Color:   mgl32.Vec3{0.8, 0.8, 0.8},
		}},
	}))
}

func TestDrawWithoutSceneIsNoop(t *testing.T) {
	backend := newFakeBackend()
	r := newRenderer(backend)
	require.NoError(t, r.Draw(testCamera(), nil))
	assert.Empty(t, backend.frames)
}

func TestSetSceneUploadsStaticGeometry(t *testing.T) {
	backend := newFakeBackend()
	r := newRenderer(backend)
	s := testScene()
	require.NoError(t, r.SetScene(s))

	bg := s.Environment().Background
	assert.InDelta(t, float64(bg[0]), backend.clear[0], 1e-6)
	// identity, ground, grid, box, instances
	assert.Equal(t, 5, backend.live())
	assert.Equal(t, 2*instanceStride, backend.buffers[4].size)
	assert.Len(t, backend.writes[backend.buffers[3]], scene.BoxVertexCount*vertexStride)

	// replacing the scene releases the previous buffers
	require.NoError(t, r.SetScene(s))
	assert.Equal(t, 5, backend.live())
	assert.Len(t, backend.buffers, 10)
}

func TestDrawCullsObstacles(t *testing.T) {
	backend := newFakeBackend()
	r := newRenderer(backend)
	require.NoError(t, r.SetScene(testScene()))

	require.NoError(t, r.Draw(testCamera(), nil))
	require.Len(t, backend.frames, 1)
	assert.Equal(t, 1, r.Visible())
	assert.Len(t, backend.uniforms, frameUniformSize)

	commands := backend.frames[0]
	require.Len(t, commands, 3)
	assert.Equal(t, pipelineLit, commands[0].kind)
	assert.Equal(t, pipelineLines, commands[1].kind)
	assert.Equal(t, uint32(12), commands[1].count)
	assert.Equal(t, uint32(scene.BoxVertexCount), commands[2].count)
	assert.Equal(t, uint32(1), commands[2].instanceCount)
}

func TestDrawUploadsAndReleasesCharacter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	backend := newFakeBackend()
	r := newRenderer(backend, WithLogger(logger))
	require.NoError(t, r.SetScene(testScene()))
	base := backend.live()

	obj := testCharacter()
	require.NoError(t, r.Draw(testCamera(), obj))
	assert.Equal(t, base+2, backend.live())

	commands := backend.frames[0]
	last := commands[len(commands)-1]
	assert.Equal(t, uint32(3), last.count)
	assert.NotNil(t, last.indices)
	assert.Len(t, backend.writes[last.vertices.(*fakeBuffer)], 3*vertexStride)

	// the same character is not uploaded twice
	require.NoError(t, r.Draw(testCamera(), obj))
	assert.Equal(t, base+2, backend.live())

	obj.Dispose()
	assert.Equal(t, base, backend.live())

	// a disposed character is skipped
	require.NoError(t, r.Draw(testCamera(), obj))
	assert.Len(t, backend.frames[2], 3)
}

func TestDrawReplacesCharacter(t *testing.T) {
	backend := newFakeBackend()
	r := newRenderer(backend)
	require.NoError(t, r.SetScene(testScene()))
	base := backend.live()

	require.NoError(t, r.Draw(testCamera(), testCharacter()))
	require.NoError(t, r.Draw(testCamera(), testCharacter()))
	assert.Equal(t, base+2, backend.live())
}

func TestResizeAndRelease(t *testing.T) {
	backend := newFakeBackend()
	r := newRenderer(backend)
	require.NoError(t, r.SetScene(testScene()))

	r.Resize(800, 600)
	assert.Equal(t, 800, backend.width)
	assert.Equal(t, 600, backend.height)

	r.Release()
	assert.True(t, backend.released)
	assert.Zero(t, backend.live())
}
