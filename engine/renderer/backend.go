package renderer

import (
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/renderer/frame"
)

// Backend is the GPU-facing half of the renderer. It owns the device, the
// swapchain and the per-slot GPU resources; the frontend owns frame pacing
// and constant propagation.
type Backend interface {
	Initialize(appName string, width, height uint32, ringDepth, objectCapacity uint32, vsync bool) error
	Shutdown() error
	Resized(width, height uint16) error

	// SlotProvider builds the GPU resources behind each frame slot and
	// CompletionFence exposes the monotonic completion counter the frame
	// ring paces against.
	SlotProvider() frame.SlotProvider
	CompletionFence() frame.Fence

	// UploadGeometry pushes the merged scene buffers to device memory.
	UploadGeometry(bundle *geometry.Bundle) error

	// BeginFrame acquires a swapchain image and opens the slot's command
	// buffer. It returns ErrSwapchainBooting while the swapchain is being
	// rebuilt, in which case the frame is skipped.
	BeginFrame(slotIndex uint32, wireframe bool) error
	DrawItems(slotIndex uint32, items []*frame.RenderItem) error
	// EndFrame closes the command buffer, submits it and presents. The
	// completion signal is NOT part of EndFrame; the frontend enqueues it
	// through the tracker so it lands dead last.
	EndFrame(slotIndex uint32) error

	// ReloadShaders recompiles the pipelines from the shader binaries on
	// disk, after the GPU has drained.
	ReloadShaders() error
}
