package vulkan

import (
	"fmt"
	stdmath "math"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/math"
)

type VulkanSwapchain struct {
	ImageFormat vk.SurfaceFormat
	Handle      vk.Swapchain
	ImageCount  uint32
	Images      []vk.Image
	Views       []vk.ImageView

	DepthAttachment *VulkanImage

	// framebuffers used for on-screen rendering.
	Framebuffers []*VulkanFramebuffer
}

type VulkanSwapchainSupportInfo struct {
	Capabilities     vk.SurfaceCapabilities
	FormatCount      uint32
	Formats          []vk.SurfaceFormat
	PresentModeCount uint32
	PresentModes     []vk.PresentMode
}

func SwapchainCreate(context *VulkanContext, width, height uint32, vsync bool) (*VulkanSwapchain, error) {
	return createSwapchain(context, width, height, vsync)
}

func (vs *VulkanSwapchain) SwapchainRecreate(context *VulkanContext, width, height uint32, vsync bool) (*VulkanSwapchain, error) {
	vs.destroySwapchain(context)
	return createSwapchain(context, width, height, vsync)
}

func (vs *VulkanSwapchain) SwapchainDestroy(context *VulkanContext) {
	vs.destroySwapchain(context)
}

// SwapchainAcquireNextImageIndex acquires the next presentable image. A
// second return of false means the swapchain went out of date and must be
// recreated before rendering continues.
func (vs *VulkanSwapchain) SwapchainAcquireNextImageIndex(context *VulkanContext, timeoutNs uint64, imageAvailableSemaphore vk.Semaphore, fence vk.Fence) (uint32, bool, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, timeoutNs, imageAvailableSemaphore, fence, &imageIndex)

	switch {
	case result == vk.ErrorOutOfDate:
		return 0, false, nil
	case result == vk.ErrorDeviceLost:
		err := fmt.Errorf("%w: swapchain image acquire failed: %s", core.ErrDeviceLost, VulkanResultString(result))
		core.LogError(err.Error())
		return 0, false, err
	case result != vk.Success && result != vk.Suboptimal:
		err := fmt.Errorf("failed to acquire swapchain image: %s", VulkanResultString(result))
		core.LogError(err.Error())
		return 0, false, err
	}
	return imageIndex, true, nil
}

// SwapchainPresent returns the image to the swapchain. A false return means
// the swapchain must be recreated.
func (vs *VulkanSwapchain) SwapchainPresent(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, presentImageIndex uint32) (bool, error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{presentImageIndex},
	}

	result := vk.QueuePresent(presentQueue, &presentInfo)
	switch {
	case result == vk.ErrorOutOfDate || result == vk.Suboptimal:
		return false, nil
	case result == vk.ErrorDeviceLost:
		err := fmt.Errorf("%w: present failed: %s", core.ErrDeviceLost, VulkanResultString(result))
		core.LogError(err.Error())
		return false, err
	case result != vk.Success:
		err := fmt.Errorf("failed to present swapchain image: %s", VulkanResultString(result))
		core.LogError(err.Error())
		return false, err
	}
	return true, nil
}

func createSwapchain(context *VulkanContext, width, height uint32, vsync bool) (*VulkanSwapchain, error) {
	swapchain := &VulkanSwapchain{}

	swapchainExtent := vk.Extent2D{Width: width, Height: height}

	found := false
	for i := 0; i < int(context.Device.SwapchainSupport.FormatCount); i++ {
		format := context.Device.SwapchainSupport.Formats[i]
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			swapchain.ImageFormat = format
			found = true
		}
	}
	if !found {
		swapchain.ImageFormat = context.Device.SwapchainSupport.Formats[0]
	}

	// Fifo is the vsync mode and always available; mailbox trades tearing
	// avoidance for lower latency when vsync is off.
	presentMode := vk.PresentModeFifo
	if !vsync {
		for i := 0; i < int(context.Device.SwapchainSupport.PresentModeCount); i++ {
			if context.Device.SwapchainSupport.PresentModes[i] == vk.PresentModeMailbox {
				presentMode = vk.PresentModeMailbox
				break
			}
		}
	}

	capabilities := context.Device.SwapchainSupport.Capabilities
	if capabilities.CurrentExtent.Width != stdmath.MaxUint32 {
		swapchainExtent = capabilities.CurrentExtent
	}
	swapchainExtent.Width = math.Clamp(swapchainExtent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width)
	swapchainExtent.Height = math.Clamp(swapchainExtent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height)

	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	swapchainCreateInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      swapchainExtent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
	}

	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeConcurrent
		swapchainCreateInfo.QueueFamilyIndexCount = 2
		swapchainCreateInfo.PQueueFamilyIndices = []uint32{
			uint32(context.Device.GraphicsQueueIndex),
			uint32(context.Device.PresentQueueIndex),
		}
	} else {
		swapchainCreateInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	swapchainCreateInfo.PreTransform = capabilities.CurrentTransform
	swapchainCreateInfo.CompositeAlpha = vk.CompositeAlphaOpaqueBit
	swapchainCreateInfo.PresentMode = presentMode
	swapchainCreateInfo.Clipped = vk.True
	swapchainCreateInfo.OldSwapchain = nil

	var swapchainHandle vk.Swapchain
	if res := vk.CreateSwapchain(context.Device.LogicalDevice, &swapchainCreateInfo, context.Allocator, &swapchainHandle); res != vk.Success {
		err := fmt.Errorf("failed to create swapchain: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	swapchain.Handle = swapchainHandle

	swapchain.ImageCount = 0
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to get swapchain images: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	swapchain.Images = make([]vk.Image, swapchain.ImageCount)
	swapchain.Views = make([]vk.ImageView, swapchain.ImageCount)
	if res := vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, swapchain.Images); res != vk.Success {
		err := fmt.Errorf("failed to get swapchain images: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	for i := 0; i < int(swapchain.ImageCount); i++ {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    swapchain.Images[i],
			ViewType: vk.ImageViewType2d,
			Format:   swapchain.ImageFormat.Format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		if res := vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &swapchain.Views[i]); res != vk.Success {
			err := fmt.Errorf("failed to create swapchain image view: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return nil, err
		}
	}

	if !DeviceDetectDepthFormat(context.Device) {
		context.Device.DepthFormat = vk.FormatUndefined
		err := fmt.Errorf("failed to find a supported depth format")
		core.LogFatal(err.Error())
		return nil, err
	}

	depthAttachment, err := ImageCreate(
		context,
		swapchainExtent.Width,
		swapchainExtent.Height,
		context.Device.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return nil, err
	}
	swapchain.DepthAttachment = depthAttachment

	core.LogInfo("Swapchain created successfully.")
	return swapchain, nil
}

func (vs *VulkanSwapchain) destroySwapchain(context *VulkanContext) {
	vk.DeviceWaitIdle(context.Device.LogicalDevice)
	vs.DepthAttachment.ImageDestroy(context)

	// Only destroy the views, not the images; those are owned by the
	// swapchain and go with it.
	for i := 0; i < int(vs.ImageCount); i++ {
		vk.DestroyImageView(context.Device.LogicalDevice, vs.Views[i], context.Allocator)
	}
	vk.DestroySwapchain(context.Device.LogicalDevice, vs.Handle, context.Allocator)
}
