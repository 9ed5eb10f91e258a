package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shader.wgsl
var shaderSource string

const frameUniformSize = 176

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	pipelines      map[pipelineKind]*wgpu.RenderPipeline
	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend requests an adapter and device for the given surface and configures it.
// Pipelines are built once the surface format is known.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, forceFallbackAdapter bool, sampleCount MSAASampleCount, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("window has no surface")
	}
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		pipelines:   make(map[pipelineKind]*wgpu.RenderPipeline, 2),
	}
	if mode == PresentModeVSync {
		b.presentMode = wgpu.PresentModeFifo
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{Label: "Main Device"})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.ConfigureSurface(width, height)
	if err := b.createPipelines(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// minimized windows report a zero framebuffer
	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()
	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, view, err := b.createTarget("MSAA Texture", size, count, b.surfaceFormat)
		if err != nil {
			panic(err)
		}
		b.msaaTexture, b.msaaTextureView = tex, view
	}

	tex, view, err := b.createTarget("Depth Texture", size, count, wgpu.TextureFormatDepth24Plus)
	if err != nil {
		panic(err)
	}
	b.depthTexture, b.depthTextureView = tex, view

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) createTarget(label string, size wgpu.Extent3D, samples uint32, format wgpu.TextureFormat) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView, b.msaaTexture = nil, nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
		b.depthTextureView, b.depthTexture = nil, nil
	}
}

// createPipelines builds the lit triangle pipeline and the unlit line pipeline from one shader module.
func (b *wgpuRendererBackendImpl) createPipelines() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "shader.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: shaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}

	bindGroupLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: frameUniformSize,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  frameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.frameBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Frame Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return err
	}

	specs := []struct {
		kind     pipelineKind
		entry    string
		topology wgpu.PrimitiveTopology
		cull     wgpu.CullMode
	}{
		{pipelineLit, "fs_lit", wgpu.PrimitiveTopologyTriangleList, wgpu.CullModeNone},
		{pipelineLines, "fs_unlit", wgpu.PrimitiveTopologyLineList, wgpu.CullModeNone},
	}
	for _, s := range specs {
		p, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  s.entry + " Render Pipeline",
			Layout: layout,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
				Buffers:    vertexLayouts(),
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: s.entry,
				Targets: []wgpu.ColorTargetState{
					{Format: b.surfaceFormat, WriteMask: wgpu.ColorWriteMaskAll},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  s.topology,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  s.cull,
			},
			Multisample: wgpu.MultisampleState{
				Count: uint32(b.sampleCount),
				Mask:  0xFFFFFFFF,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            wgpu.TextureFormatDepth24Plus,
				DepthWriteEnabled: true,
				DepthCompare:      wgpu.CompareFunctionLess,
				StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
				StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			},
		})
		if err != nil {
			return fmt.Errorf("%s pipeline: %w", s.entry, err)
		}
		b.pipelines[s.kind] = p
	}
	return nil
}

// vertexLayouts describes slot 0 (Vertex, per vertex) and slot 1 (Instance, per instance).
func vertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 4},
			},
		},
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(r, g, bl float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: r, G: g, B: bl, A: 1.0}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, size int, usage bufferUsage, data []byte) (gpuBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var flags wgpu.BufferUsage
	switch usage {
	case usageIndex:
		flags = wgpu.BufferUsageIndex
	case usageUniform:
		flags = wgpu.BufferUsageUniform
	default:
		flags = wgpu.BufferUsageVertex
	}
	// buffer sizes must be a multiple of 4
	size = max(size, len(data), 4)
	size = (size + 3) &^ 3

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: flags | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		b.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(buf gpuBuffer, data []byte) {
	if len(data) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(buf.(*wgpu.Buffer), 0, data)
}

func (b *wgpuRendererBackendImpl) WriteFrameUniforms(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(b.frameBuffer, 0, data)
}

func (b *wgpuRendererBackendImpl) Frame(commands []drawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("surface not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetBindGroup(0, b.frameBindGroup, nil)

	for _, c := range commands {
		if c.count == 0 || c.instanceCount == 0 {
			continue
		}
		pass.SetPipeline(b.pipelines[c.kind])
		pass.SetVertexBuffer(0, c.vertices.(*wgpu.Buffer), 0, wgpu.WholeSize)
		pass.SetVertexBuffer(1, c.instances.(*wgpu.Buffer), 0, wgpu.WholeSize)
		if c.indices != nil {
			pass.SetIndexBuffer(c.indices.(*wgpu.Buffer), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(c.count, c.instanceCount, 0, 0, 0)
		} else {
			pass.Draw(c.count, c.instanceCount, 0, 0)
		}
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseTargets()
	for k, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, k)
	}
	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
		b.frameBuffer.Release()
		b.frameBindGroup, b.frameBuffer = nil, nil
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
