package vulkan

import (
	"fmt"
	stdmath "math"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/math"
	"github.com/bastion3d/bastion/engine/platform"
	"github.com/bastion3d/bastion/engine/renderer/frame"
)

// frameSlot is the GPU side of one frame ring slot: its own command pool
// and buffer, per-object and per-pass uniform storage, and the descriptor
// set binding them.
type frameSlot struct {
	commandPool   vk.CommandPool
	commandBuffer *VulkanCommandBuffer
	objects       *ObjectUniformBuffer
	pass          *PassUniformBuffer
	descriptorSet vk.DescriptorSet
}

// slotAllocator resets a slot's entire command pool, which is cheaper than
// per-buffer resets and matches the one-pool-per-slot layout.
type slotAllocator struct {
	context *VulkanContext
	pool    vk.CommandPool
}

func (sa *slotAllocator) Reset() error {
	if res := vk.ResetCommandPool(sa.context.Device.LogicalDevice, sa.pool, 0); res != vk.Success {
		err := fmt.Errorf("failed to reset command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

type VulkanRenderer struct {
	platform *platform.Platform
	context  *VulkanContext

	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	ringDepth      uint32
	objectCapacity uint32
	vsync          bool

	completionFence *MonotonicFence

	slots []*frameSlot

	descriptorPool      vk.DescriptorPool
	descriptorSetLayout vk.DescriptorSetLayout

	solidPipeline     *VulkanPipeline
	wireframePipeline *VulkanPipeline
	shaderDir         string

	vertexBuffer *VulkanBuffer
	indexBuffer  *VulkanBuffer
	bundle       *geometry.Bundle

	// pipeline bound by the frame currently being recorded
	boundPipeline *VulkanPipeline

	debug bool
}

func New(p *platform.Platform) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		context: &VulkanContext{
			Allocator: nil,
			Device:    &VulkanDevice{GraphicsQueueIndex: -1, PresentQueueIndex: -1},
		},
		shaderDir: filepath.Join("assets", "shaders"),
		debug:     true,
	}
}

func (vr *VulkanRenderer) Initialize(appName string, width, height uint32, ringDepth, objectCapacity uint32, vsync bool) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := fmt.Errorf("GetInstanceProcAddress is nil")
		core.LogFatal(err.Error())
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
		return err
	}

	vr.context.FramebufferWidth = width
	vr.context.FramebufferHeight = height
	vr.ringDepth = ringDepth
	vr.objectCapacity = objectCapacity
	vr.vsync = vsync

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Bastion Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1
	}
	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
	}
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	validationLayers := []string{}
	if vr.debug && validationLayerAvailable() {
		validationLayers = append(validationLayers, "VK_LAYER_KHRONOS_validation")
	}
	createInfo.EnabledLayerCount = uint32(len(validationLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(validationLayers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed to create the Vulkan instance: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if vr.debug {
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg); res == vk.Success {
			vr.context.debugMessenger = dbg
			core.LogDebug("Vulkan debugger created.")
		}
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.Window.CreateWindowSurface(vr.context.Instance, nil)
	if err != nil {
		core.LogFatal("Vulkan surface creation failed.")
		return err
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)

	if err := DeviceCreate(vr.context); err != nil {
		core.LogError("Failed to create device!")
		return err
	}

	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight, vr.vsync)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc

	rp, err := RenderpassCreate(
		vr.context,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.2, 1.0,
		1.0,
		0)
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp

	vr.context.Swapchain.Framebuffers = make([]*VulkanFramebuffer, vr.context.Swapchain.ImageCount)
	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}

	if err := vr.createDescriptorResources(); err != nil {
		return err
	}
	if err := vr.createPipelines(); err != nil {
		return err
	}

	vr.context.ImageAvailableSemaphores = make([]vk.Semaphore, ringDepth)
	vr.context.QueueCompleteSemaphores = make([]vk.Semaphore, ringDepth)
	for i := uint32(0); i < ringDepth; i++ {
		semaphoreCreateInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.ImageAvailableSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create semaphore on image available: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &semaphoreCreateInfo, vr.context.Allocator, &vr.context.QueueCompleteSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create semaphore on queue complete: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
	}

	vr.completionFence = NewMonotonicFence(vr.context)
	vr.slots = make([]*frameSlot, ringDepth)

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

	// Destroy in the opposite order of creation.
	vr.completionFence.Destroy()

	for i := range vr.context.ImageAvailableSemaphores {
		if vr.context.ImageAvailableSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.ImageAvailableSemaphores[i], vr.context.Allocator)
		}
		if vr.context.QueueCompleteSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(vr.context.Device.LogicalDevice, vr.context.QueueCompleteSemaphores[i], vr.context.Allocator)
		}
	}
	vr.context.ImageAvailableSemaphores = nil
	vr.context.QueueCompleteSemaphores = nil

	for _, slot := range vr.slots {
		if slot == nil {
			continue
		}
		slot.objects.Destroy(vr.context)
		slot.pass.Destroy(vr.context)
		vk.DestroyCommandPool(vr.context.Device.LogicalDevice, slot.commandPool, vr.context.Allocator)
	}
	vr.slots = nil

	if vr.vertexBuffer != nil {
		vr.vertexBuffer.Destroy(vr.context)
	}
	if vr.indexBuffer != nil {
		vr.indexBuffer.Destroy(vr.context)
	}

	vr.destroyPipelines()
	vk.DestroyDescriptorPool(vr.context.Device.LogicalDevice, vr.descriptorPool, vr.context.Allocator)
	vk.DestroyDescriptorSetLayout(vr.context.Device.LogicalDevice, vr.descriptorSetLayout, vr.context.Allocator)

	for i := 0; i < int(vr.context.Swapchain.ImageCount); i++ {
		vr.context.Swapchain.Framebuffers[i].Destroy(vr.context)
	}
	vr.context.MainRenderpass.RenderpassDestroy(vr.context)
	vr.context.Swapchain.SwapchainDestroy(vr.context)

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(vr.context)

	core.LogDebug("Destroying Vulkan surface...")
	if vr.context.Surface != vk.NullSurface {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}

	if vr.debug && vr.context.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
	return nil
}

func (vr *VulkanRenderer) Resized(width, height uint16) error {
	vr.cachedFramebufferWidth = uint32(width)
	vr.cachedFramebufferHeight = uint32(height)
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer backend->resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

// SlotProvider builds the GPU resources behind each frame ring slot.
func (vr *VulkanRenderer) SlotProvider() frame.SlotProvider {
	return vr
}

func (vr *VulkanRenderer) BuildSlot(index uint32) (*frame.Slot, error) {
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(vr.context.Device.GraphicsQueueIndex),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &pool); res != vk.Success {
		err := fmt.Errorf("failed to create command pool for slot %d: %s", index, VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	commandBuffer, err := NewVulkanCommandBuffer(vr.context, pool, true)
	if err != nil {
		return nil, err
	}

	objects, err := NewObjectUniformBuffer(vr.context, vr.objectCapacity)
	if err != nil {
		return nil, err
	}
	pass, err := NewPassUniformBuffer(vr.context)
	if err != nil {
		return nil, err
	}

	descriptorSet, err := vr.allocateSlotDescriptorSet(objects, pass)
	if err != nil {
		return nil, err
	}

	vr.slots[index] = &frameSlot{
		commandPool:   pool,
		commandBuffer: commandBuffer,
		objects:       objects,
		pass:          pass,
		descriptorSet: descriptorSet,
	}

	return &frame.Slot{
		Allocator: &slotAllocator{context: vr.context, pool: pool},
		Objects:   objects,
		Pass:      pass,
	}, nil
}

func (vr *VulkanRenderer) CompletionFence() frame.Fence {
	return vr.completionFence
}

func (vr *VulkanRenderer) UploadGeometry(bundle *geometry.Bundle) error {
	if len(bundle.Vertices) == 0 || len(bundle.Indices) == 0 {
		err := fmt.Errorf("empty geometry bundle")
		core.LogError(err.Error())
		return err
	}

	// transient pool for the staging transfers
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(vr.context.Device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &pool); res != vk.Success {
		err := fmt.Errorf("failed to create transfer command pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	defer vk.DestroyCommandPool(vr.context.Device.LogicalDevice, pool, vr.context.Allocator)

	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&bundle.Vertices[0])), len(bundle.Vertices)*int(unsafe.Sizeof(math.ColorVertex{})))
	indexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&bundle.Indices[0])), len(bundle.Indices)*4)

	vertexBuffer, err := UploadDeviceLocal(vr.context, pool, vr.context.Device.GraphicsQueue,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), vertexBytes)
	if err != nil {
		return err
	}
	indexBuffer, err := UploadDeviceLocal(vr.context, pool, vr.context.Device.GraphicsQueue,
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), indexBytes)
	if err != nil {
		vertexBuffer.Destroy(vr.context)
		return err
	}

	vr.vertexBuffer = vertexBuffer
	vr.indexBuffer = indexBuffer
	vr.bundle = bundle
	core.LogInfo("Scene geometry uploaded: %d vertices, %d indices.", len(bundle.Vertices), len(bundle.Indices))
	return nil
}

func (vr *VulkanRenderer) BeginFrame(slotIndex uint32, wireframe bool) error {
	device := vr.context.Device

	if vr.context.RecreatingSwapchain {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("BeginFrame vkDeviceWaitIdle (1) failed: %s", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		core.LogInfo("Recreating swapchain, booting.")
		return core.ErrSwapchainBooting
	}

	if vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("BeginFrame vkDeviceWaitIdle (2) failed: %s", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		if !vr.recreateSwapchain() {
			return core.ErrSwapchainBooting
		}
		core.LogInfo("Resized, booting.")
		return core.ErrSwapchainBooting
	}

	imageIndex, ok, err := vr.context.Swapchain.SwapchainAcquireNextImageIndex(
		vr.context, stdmath.MaxUint64, vr.context.ImageAvailableSemaphores[slotIndex], vk.NullFence)
	if err != nil {
		return err
	}
	if !ok {
		vr.context.FramebufferSizeGeneration++
		return core.ErrSwapchainBooting
	}
	vr.context.ImageIndex = imageIndex

	slot := vr.slots[slotIndex]
	if err := slot.commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(vr.context.FramebufferWidth),
		Height:   float32(vr.context.FramebufferHeight),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{
			Width:  vr.context.FramebufferWidth,
			Height: vr.context.FramebufferHeight,
		},
	}
	vk.CmdSetViewport(slot.commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(slot.commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.context.MainRenderpass.RenderpassBegin(slot.commandBuffer, vr.context.Swapchain.Framebuffers[vr.context.ImageIndex].Handle)

	vr.boundPipeline = vr.solidPipeline
	if wireframe {
		vr.boundPipeline = vr.wireframePipeline
	}
	vr.boundPipeline.Bind(slot.commandBuffer)

	vk.CmdBindVertexBuffers(slot.commandBuffer.Handle, 0, 1, []vk.Buffer{vr.vertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(slot.commandBuffer.Handle, vr.indexBuffer.Handle, 0, vk.IndexTypeUint32)

	return nil
}

func (vr *VulkanRenderer) DrawItems(slotIndex uint32, items []*frame.RenderItem) error {
	slot := vr.slots[slotIndex]

	for _, item := range items {
		sub, err := vr.bundle.SubMesh(item.Mesh)
		if err != nil {
			return err
		}
		dynamicOffset := slot.objects.DynamicOffset(item.SlotIndex())
		vk.CmdBindDescriptorSets(slot.commandBuffer.Handle, vk.PipelineBindPointGraphics,
			vr.boundPipeline.PipelineLayout, 0, 1, []vk.DescriptorSet{slot.descriptorSet},
			1, []uint32{dynamicOffset})
		vk.CmdDrawIndexed(slot.commandBuffer.Handle, sub.IndexCount, 1, sub.FirstIndex, sub.VertexOffset, 0)
	}
	return nil
}

func (vr *VulkanRenderer) EndFrame(slotIndex uint32) error {
	slot := vr.slots[slotIndex]

	vr.context.MainRenderpass.RenderpassEnd(slot.commandBuffer)
	if err := slot.commandBuffer.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vr.context.QueueCompleteSemaphores[slotIndex]},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{vr.context.ImageAvailableSemaphores[slotIndex]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	// No fence here: the frame's completion signal goes through the
	// monotonic fence, enqueued by the frontend after this submit.
	if result := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); result != vk.Success {
		if result == vk.ErrorDeviceLost {
			err := fmt.Errorf("%w: vkQueueSubmit failed: %s", core.ErrDeviceLost, VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		err := fmt.Errorf("vkQueueSubmit failed: %s", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}
	slot.commandBuffer.UpdateSubmitted()

	presented, err := vr.context.Swapchain.SwapchainPresent(
		vr.context,
		vr.context.Device.PresentQueue,
		vr.context.QueueCompleteSemaphores[slotIndex],
		vr.context.ImageIndex)
	if err != nil {
		return err
	}
	if !presented {
		vr.context.FramebufferSizeGeneration++
	}
	return nil
}

// ReloadShaders rebuilds both pipelines from the shader binaries on disk.
// The caller must have drained the GPU first.
func (vr *VulkanRenderer) ReloadShaders() error {
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	vr.destroyPipelines()
	if err := vr.createPipelines(); err != nil {
		return err
	}
	core.LogInfo("Shader pipelines reloaded.")
	return nil
}

func (vr *VulkanRenderer) createDescriptorResources() error {
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
	}
	layoutCreateInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	if res := vk.CreateDescriptorSetLayout(vr.context.Device.LogicalDevice, &layoutCreateInfo, vr.context.Allocator, &vr.descriptorSetLayout); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor set layout: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: vr.ringDepth},
		{Type: vk.DescriptorTypeUniformBufferDynamic, DescriptorCount: vr.ringDepth},
	}
	poolCreateInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       vr.ringDepth,
	}
	if res := vk.CreateDescriptorPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &vr.descriptorPool); res != vk.Success {
		err := fmt.Errorf("failed to create descriptor pool: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	return nil
}

func (vr *VulkanRenderer) allocateSlotDescriptorSet(objects *ObjectUniformBuffer, pass *PassUniformBuffer) (vk.DescriptorSet, error) {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     vr.descriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{vr.descriptorSetLayout},
	}
	sets := make([]vk.DescriptorSet, 1)
	if res := vk.AllocateDescriptorSets(vr.context.Device.LogicalDevice, &allocateInfo, &sets[0]); res != vk.Success {
		err := fmt.Errorf("failed to allocate descriptor set: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return vk.NullDescriptorSet, err
	}

	passBufferInfo := vk.DescriptorBufferInfo{
		Buffer: pass.buffer.Handle,
		Offset: 0,
		Range:  pass.buffer.TotalSize,
	}
	objectBufferInfo := vk.DescriptorBufferInfo{
		Buffer: objects.buffer.Handle,
		Offset: 0,
		Range:  vk.DeviceSize(unsafe.Sizeof(objectGPU{})),
	}
	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          sets[0],
			DstBinding:      0,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			PBufferInfo:     []vk.DescriptorBufferInfo{passBufferInfo},
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          sets[0],
			DstBinding:      1,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			PBufferInfo:     []vk.DescriptorBufferInfo{objectBufferInfo},
		},
	}
	vk.UpdateDescriptorSets(vr.context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return sets[0], nil
}

func (vr *VulkanRenderer) createPipelines() error {
	vertStage, err := NewShaderStage(vr.context, filepath.Join(vr.shaderDir, "castle.vert.spv"), vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	defer vertStage.Destroy(vr.context)
	fragStage, err := NewShaderStage(vr.context, filepath.Join(vr.shaderDir, "castle.frag.spv"), vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	defer fragStage.Destroy(vr.context)

	stages := []vk.PipelineShaderStageCreateInfo{
		vertStage.ShaderStageCreateInfo,
		fragStage.ShaderStageCreateInfo,
	}
	viewport := vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(vr.context.FramebufferWidth),
		Height:   float32(vr.context.FramebufferHeight),
		MinDepth: 0, MaxDepth: 1,
	}
	scissor := vk.Rect2D{
		Extent: vk.Extent2D{Width: vr.context.FramebufferWidth, Height: vr.context.FramebufferHeight},
	}

	solid, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass:           vr.context.MainRenderpass,
		DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.descriptorSetLayout},
		Stages:               stages,
		Viewport:             viewport,
		Scissor:              scissor,
		IsWireframe:          false,
	})
	if err != nil {
		return err
	}
	wire, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
		Renderpass:           vr.context.MainRenderpass,
		DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.descriptorSetLayout},
		Stages:               stages,
		Viewport:             viewport,
		Scissor:              scissor,
		IsWireframe:          true,
	})
	if err != nil {
		solid.Destroy(vr.context)
		return err
	}

	vr.solidPipeline = solid
	vr.wireframePipeline = wire
	return nil
}

func (vr *VulkanRenderer) destroyPipelines() {
	if vr.solidPipeline != nil {
		vr.solidPipeline.Destroy(vr.context)
		vr.solidPipeline = nil
	}
	if vr.wireframePipeline != nil {
		vr.wireframePipeline.Destroy(vr.context)
		vr.wireframePipeline = nil
	}
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	swapchain := vr.context.Swapchain
	for i := 0; i < int(swapchain.ImageCount); i++ {
		attachments := []vk.ImageView{
			swapchain.Views[i],
			swapchain.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(vr.context, vr.context.MainRenderpass, vr.context.FramebufferWidth, vr.context.FramebufferHeight, attachments)
		if err != nil {
			core.LogError("failed to regenerate framebuffer %d", i)
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() bool {
	if vr.context.RecreatingSwapchain {
		core.LogDebug("recreateSwapchain called when already recreating. Booting.")
		return false
	}
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		core.LogDebug("recreateSwapchain called when window is < 1 in a dimension. Booting.")
		return false
	}

	vr.context.RecreatingSwapchain = true
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

	DeviceQuerySwapchainSupport(vr.context.Device.PhysicalDevice, vr.context.Surface, &vr.context.Device.SwapchainSupport)
	DeviceDetectDepthFormat(vr.context.Device)

	for i := 0; i < int(vr.context.Swapchain.ImageCount); i++ {
		vr.context.Swapchain.Framebuffers[i].Destroy(vr.context)
	}

	sc, err := vr.context.Swapchain.SwapchainRecreate(vr.context, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight, vr.vsync)
	if err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}
	vr.context.Swapchain = sc

	vr.context.FramebufferWidth = vr.cachedFramebufferWidth
	vr.context.FramebufferHeight = vr.cachedFramebufferHeight
	vr.context.MainRenderpass.X = 0
	vr.context.MainRenderpass.Y = 0
	vr.context.MainRenderpass.W = float32(vr.context.FramebufferWidth)
	vr.context.MainRenderpass.H = float32(vr.context.FramebufferHeight)
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0

	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration

	vr.context.Swapchain.Framebuffers = make([]*VulkanFramebuffer, vr.context.Swapchain.ImageCount)
	if err := vr.regenerateFramebuffers(); err != nil {
		vr.context.RecreatingSwapchain = false
		return false
	}

	vr.context.RecreatingSwapchain = false
	return true
}

func validationLayerAvailable() bool {
	var availableLayerCount uint32
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success || availableLayerCount == 0 {
		return false
	}
	availableLayers := make([]vk.LayerProperties, availableLayerCount)
	if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
		return false
	}
	for i := range availableLayers {
		availableLayers[i].Deref()
		endIdx := FindFirstZeroInByteArray(availableLayers[i].LayerName[:])
		if vk.ToString(availableLayers[i].LayerName[:endIdx+1]) == "VK_LAYER_KHRONOS_validation" {
			return true
		}
	}
	return false
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
