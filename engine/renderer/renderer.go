package renderer

import (
	"errors"
	"sync"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/math"
	"github.com/bastion3d/bastion/engine/platform"
	"github.com/bastion3d/bastion/engine/renderer/frame"
	"github.com/bastion3d/bastion/engine/renderer/vulkan"
)

// RenderPacket carries everything the frontend needs to build one frame.
type RenderPacket struct {
	DeltaTime float64
	TotalTime float64

	View   math.Mat4
	Proj   math.Mat4
	EyePos math.Vec3
	NearZ  float32
	FarZ   float32

	Wireframe bool
	Items     []*frame.RenderItem
}

type Renderer struct {
	backend Backend

	ring    *frame.Ring
	tracker *frame.Tracker
	items   *frame.ItemList

	width  uint32
	height uint32
}

var initRenderer sync.Once
var renderer *Renderer

// Initialize brings up the backend, builds the frame ring through it and
// provisions the render item list at the same fixed capacity as the
// per-slot object buffers.
func Initialize(appName string, width, height uint32, ringDepth, objectCapacity uint32, vsync bool, p *platform.Platform) error {
	initRenderer.Do(func() {
		renderer = &Renderer{
			backend: vulkan.New(p),
			width:   width,
			height:  height,
		}
	})
	if err := renderer.backend.Initialize(appName, width, height, ringDepth, objectCapacity, vsync); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err.Error())
		return err
	}

	ring, err := frame.NewRing(ringDepth, renderer.backend.SlotProvider())
	if err != nil {
		return err
	}
	renderer.ring = ring
	renderer.tracker = frame.NewTracker(renderer.backend.CompletionFence())
	renderer.items = frame.NewItemList(objectCapacity, ringDepth)
	return nil
}

// Shutdown drains the GPU before tearing the backend down.
func Shutdown() error {
	if err := renderer.tracker.WaitUntil(renderer.tracker.CurrentValue()); err != nil {
		core.LogWarn("drain before shutdown failed: %s", err.Error())
	}
	return renderer.backend.Shutdown()
}

// UploadGeometry pushes the merged scene buffers to the GPU. Call once
// after scene construction, before the first frame.
func UploadGeometry(bundle *geometry.Bundle) error {
	return renderer.backend.UploadGeometry(bundle)
}

// AddItem registers a drawable instance. Fails with ErrResourceExhausted
// once the provisioned object capacity is reached.
func AddItem(mesh geometry.MeshID, world math.Mat4) (*frame.RenderItem, error) {
	return renderer.items.Add(mesh, world)
}

func Items() []*frame.RenderItem {
	return renderer.items.Items()
}

func OnResize(width, height uint16) error {
	renderer.width = uint32(width)
	renderer.height = uint32(height)
	return renderer.backend.Resized(width, height)
}

// DrawFrame runs one frame: reclaim the next slot, propagate constants,
// record and submit the draw, then enqueue the completion signal and stamp
// the slot's watermark with it. Reclaiming the slot is the only point that
// may block.
func DrawFrame(packet *RenderPacket) error {
	slot, err := renderer.ring.AcquireNext(renderer.tracker)
	if err != nil {
		return err
	}

	if err := frame.UpdateObjects(slot, packet.Items); err != nil {
		return err
	}
	viewProj := packet.View.Mul(packet.Proj)
	if err := frame.UpdatePass(slot, frame.PassData{
		View:             packet.View,
		Proj:             packet.Proj,
		ViewProj:         viewProj,
		EyePos:           packet.EyePos,
		RenderTargetSize: math.NewVec2(float32(renderer.width), float32(renderer.height)),
		NearZ:            packet.NearZ,
		FarZ:             packet.FarZ,
		TotalTime:        float32(packet.TotalTime),
		DeltaTime:        float32(packet.DeltaTime),
	}); err != nil {
		return err
	}

	slotIndex := renderer.ring.CurrentIndex()
	if err := renderer.backend.BeginFrame(slotIndex, packet.Wireframe); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			// swapchain mid-rebuild, skip presenting this frame
			return nil
		}
		core.LogError("BeginFrame failed: %s", err.Error())
		return err
	}
	if err := renderer.backend.DrawItems(slotIndex, packet.Items); err != nil {
		return err
	}
	if err := renderer.backend.EndFrame(slotIndex); err != nil {
		core.LogError("EndFrame failed. Application shutting down...")
		return err
	}

	value, err := renderer.tracker.SignalNext()
	if err != nil {
		return err
	}
	slot.FenceWatermark = value
	return nil
}

// ReloadShaders rebuilds the pipelines after the GPU has gone idle. Driven
// by the asset watcher when a shader binary changes on disk.
func ReloadShaders() error {
	if err := renderer.tracker.WaitUntil(renderer.tracker.CurrentValue()); err != nil {
		return err
	}
	return renderer.backend.ReloadShaders()
}
