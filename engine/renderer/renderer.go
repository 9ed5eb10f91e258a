package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-character/common"
	"github.com/Carmen-Shannon/oxy-character/engine/camera"
	"github.com/Carmen-Shannon/oxy-character/engine/game_object"
	"github.com/Carmen-Shannon/oxy-character/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
)

// Surface is anything a WebGPU surface can be created from, normally the engine window.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer draws the static scene and the controlled character.
//
// The ground, grid and obstacle box are uploaded once by SetScene. Obstacles are drawn instanced
// after frustum culling. The character is skinned and morphed on the CPU and its vertex buffers
// are rewritten every frame.
type Renderer interface {
	// SetScene uploads the scene's static geometry and replaces any previous scene.
	//
	// Parameters:
	//   - s: the populated scene
	//
	// Returns:
	//   - error: an error if GPU buffers could not be created
	SetScene(s scene.Scene) error

	// Draw renders one frame from the camera's point of view.
	// Buffers for a new character are created on first sight and released when it is disposed.
	//
	// Parameters:
	//   - cam: the active camera
	//   - character: the character to draw, or nil
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or submitted
	Draw(cam camera.Camera, character game_object.GameObject) error

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Visible returns how many obstacles survived culling in the last frame.
	Visible() int

	// Release frees all GPU resources. The renderer is unusable afterwards.
	Release()
}

type gpuMesh struct {
	vertices gpuBuffer
	indices  gpuBuffer
	count    uint32
	scratch  []Vertex
}

type renderer struct {
	mu      *sync.Mutex
	backend RendererBackend
	logger  logrus.FieldLogger

	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount

	scene     scene.Scene
	env       scene.Environment
	identity  gpuBuffer
	ground    gpuBuffer
	grid      gpuBuffer
	gridCount uint32
	box       gpuBuffer
	instances gpuBuffer
	visible   []Instance

	characterID uint64
	character   []gpuMesh
}

var _ Renderer = &renderer{}

// NewRenderer creates a WebGPU renderer drawing into the given surface.
//
// Parameters:
//   - surface: the window to draw into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the newly created renderer
//   - error: an error if no adapter, device or pipeline could be created
func NewRenderer(surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(nil, options...)
	backend, err := newWGPURendererBackend(surface.SurfaceDescriptor(), surface.Width(), surface.Height(), r.forceFallbackAdapter, r.msaa, r.presentMode)
	if err != nil {
		return nil, err
	}
	r.backend = backend
	return r, nil
}

func newRenderer(backend RendererBackend, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backend:     backend,
		logger:      logrus.StandardLogger(),
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) SetScene(s scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseScene()
	r.scene = s
	r.env = s.Environment()
	bg := r.env.Background
	r.backend.SetClearColor(float64(bg[0]), float64(bg[1]), float64(bg[2]))

	var err error
	one := []Instance{{Color: white}}
	if r.identity, err = r.upload("Identity Instance", usageVertex, common.SliceToBytes(one), 0); err != nil {
		return err
	}
	ground := GroundVertices(r.env.GroundSize, r.env.GroundColor)
	if r.ground, err = r.upload("Ground", usageVertex, common.SliceToBytes(ground), 0); err != nil {
		return err
	}
	grid := GridVertices(s.GridLines())
	r.gridCount = uint32(len(grid))
	if r.grid, err = r.upload("Grid", usageVertex, common.SliceToBytes(grid), 0); err != nil {
		return err
	}

	obstacles := s.Obstacles()
	if len(obstacles) == 0 {
		return nil
	}
	box := BoxVertices(obstacles[0].Size, s.BoxVertexColors())
	if r.box, err = r.upload("Obstacle Box", usageVertex, common.SliceToBytes(box), 0); err != nil {
		return err
	}
	if r.instances, err = r.upload("Obstacle Instances", usageVertex, nil, len(obstacles)*instanceStride); err != nil {
		return err
	}
	r.visible = make([]Instance, 0, len(obstacles))
	r.logger.WithField("obstacles", len(obstacles)).Debug("scene uploaded")
	return nil
}

func (r *renderer) upload(label string, usage bufferUsage, data []byte, size int) (gpuBuffer, error) {
	buf, err := r.backend.CreateBuffer(label, max(size, len(data)), usage, data)
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

func (r *renderer) Draw(cam camera.Camera, character game_object.GameObject) error {
	r.mu.Lock()
	uploaded, err := r.draw(cam, character)
	r.mu.Unlock()

	// registered outside the lock: OnDispose runs fn immediately for a disposed object
	if uploaded != nil {
		id := uploaded.ID()
		uploaded.OnDispose(func() { r.releaseCharacter(id) })
	}
	return err
}

func (r *renderer) draw(cam camera.Camera, character game_object.GameObject) (game_object.GameObject, error) {
	if r.scene == nil {
		return nil, nil
	}

	u := NewFrameUniforms(cam, r.env)
	r.backend.WriteFrameUniforms(common.StructToBytes(&u))

	commands := []drawCommand{
		{kind: pipelineLit, vertices: r.ground, instances: r.identity, count: 6, instanceCount: 1},
		{kind: pipelineLines, vertices: r.grid, instances: r.identity, count: r.gridCount, instanceCount: 1},
	}

	if r.box != nil {
		r.visible = VisibleInstances(r.scene.Obstacles(), cam.Frustum(), r.visible)
		r.backend.WriteBuffer(r.instances, common.SliceToBytes(r.visible))
		commands = append(commands, drawCommand{
			kind: pipelineLit, vertices: r.box, instances: r.instances,
			count: scene.BoxVertexCount, instanceCount: uint32(len(r.visible)),
		})
	}

	var uploaded game_object.GameObject
	if character != nil && !character.Disposed() {
		if character.ID() != r.characterID || r.character == nil {
			if err := r.uploadCharacter(character); err != nil {
				return nil, err
			}
			uploaded = character
		}
		r.skinCharacter(character)
		for _, m := range r.character {
			commands = append(commands, drawCommand{
				kind: pipelineLit, vertices: m.vertices, instances: r.identity, indices: m.indices,
				count: m.count, instanceCount: 1,
			})
		}
	}

	return uploaded, r.backend.Frame(commands)
}

func (r *renderer) uploadCharacter(obj game_object.GameObject) error {
	r.releaseCharacterLocked()
	meshes := obj.Model().Meshes
	out := make([]gpuMesh, 0, len(meshes))
	for i := range meshes {
		mesh := &meshes[i]
		if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
			continue
		}
		vb, err := r.upload(obj.Name()+" Vertices", usageVertex, nil, len(mesh.Vertices)*vertexStride)
		if err != nil {
			releaseMeshes(out)
			return err
		}
		ib, err := r.upload(obj.Name()+" Indices", usageIndex, common.SliceToBytes(mesh.Indices), 0)
		if err != nil {
			vb.Release()
			releaseMeshes(out)
			return err
		}
		out = append(out, gpuMesh{vertices: vb, indices: ib, count: uint32(len(mesh.Indices))})
	}
	r.character = out
	r.characterID = obj.ID()
	r.logger.WithFields(logrus.Fields{"id": obj.ID(), "meshes": len(out)}).Debug("character uploaded")
	return nil
}

// skinCharacter re-poses every mesh and rewrites its vertex buffer.
func (r *renderer) skinCharacter(obj game_object.GameObject) {
	mixer := obj.Mixer()
	skin := mixer.SkinMatrices()
	world := obj.ModelMatrix()
	meshes := obj.Model().Meshes

	k := 0
	for i := range meshes {
		mesh := &meshes[i]
		if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
			continue
		}
		weights := mixer.MorphWeights(mesh.Name, obj.MorphInfluences(mesh.Name))
		gm := &r.character[k]
		gm.scratch = SkinMesh(mesh, skin, weights, world, gm.scratch)
		r.backend.WriteBuffer(gm.vertices, common.SliceToBytes(gm.scratch))
		k++
	}
}

func (r *renderer) releaseCharacter(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == r.characterID {
		r.releaseCharacterLocked()
	}
}

func (r *renderer) releaseCharacterLocked() {
	releaseMeshes(r.character)
	r.character = nil
	r.characterID = 0
}

func releaseMeshes(meshes []gpuMesh) {
	for _, m := range meshes {
		m.vertices.Release()
		m.indices.Release()
	}
}

func (r *renderer) releaseScene() {
	for _, b := range []gpuBuffer{r.identity, r.ground, r.grid, r.box, r.instances} {
		if b != nil {
			b.Release()
		}
	}
	r.identity, r.ground, r.grid, r.box, r.instances = nil, nil, nil, nil, nil
	r.scene = nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Visible() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visible)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseCharacterLocked()
	r.releaseScene()
	r.backend.Release()
}
