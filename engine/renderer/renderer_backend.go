package renderer

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// pipelineKind selects one of the two render pipelines built from shader.wgsl.
type pipelineKind int

const (
	pipelineLit pipelineKind = iota
	pipelineLines
)

// drawCommand is one instanced draw within the frame's render pass.
type drawCommand struct {
	kind          pipelineKind
	vertices      gpuBuffer
	instances     gpuBuffer
	indices       gpuBuffer
	count         uint32
	instanceCount uint32
}

// RendererBackend is the GPU API the Renderer draws through.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain, MSAA and depth targets for a new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetClearColor sets the color the render pass clears to.
	SetClearColor(r, g, b float64)

	// CreateBuffer allocates a GPU buffer and uploads data into it.
	//
	// Parameters:
	//   - label: debug label
	//   - size: buffer size in bytes, at least len(data)
	//   - usage: the kind of buffer to create
	//   - data: initial contents, may be nil
	//
	// Returns:
	//   - gpuBuffer: the created buffer
	//   - error: an error if allocation fails
	CreateBuffer(label string, size int, usage bufferUsage, data []byte) (gpuBuffer, error)

	// WriteBuffer uploads data at offset 0 of buf.
	WriteBuffer(buf gpuBuffer, data []byte)

	// WriteFrameUniforms uploads the frame uniform block.
	WriteFrameUniforms(data []byte)

	// Frame acquires the swapchain texture, encodes every command in one render pass and submits it.
	//
	// Parameters:
	//   - commands: the draws for this frame, in order
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	Frame(commands []drawCommand) error

	// Release frees every GPU object the backend owns.
	Release()
}

// bufferUsage is the role a GPU buffer is created for.
type bufferUsage int

const (
	usageVertex bufferUsage = iota
	usageIndex
	usageUniform
)

// gpuBuffer is a backend-owned buffer handle.
type gpuBuffer interface {
	Release()
}
