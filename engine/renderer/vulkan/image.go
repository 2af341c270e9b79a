package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
)

type VulkanImage struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Width  uint32
	Height uint32
}

// ImageCreate builds a 2D image with backing memory and, optionally, a view
// over the given aspect.
func ImageCreate(context *VulkanContext, width, height uint32, format vk.Format,
	tiling vk.ImageTiling, usage vk.ImageUsageFlags, memoryFlags vk.MemoryPropertyFlags,
	createView bool, viewAspect vk.ImageAspectFlags) (*VulkanImage, error) {

	image := &VulkanImage{Width: width, Height: height}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
	}

	var handle vk.Image
	if res := vk.CreateImage(context.Device.LogicalDevice, &imageCreateInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create image: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	image.Handle = handle

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, image.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		err := fmt.Errorf("required memory type not found, image not valid")
		core.LogError(err.Error())
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: uint32(memoryType),
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		err := fmt.Errorf("failed to allocate image memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	image.Memory = memory

	if res := vk.BindImageMemory(context.Device.LogicalDevice, image.Handle, image.Memory, 0); res != vk.Success {
		err := fmt.Errorf("failed to bind image memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	if createView {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image.Handle,
			ViewType: vk.ImageViewType2d,
			Format:   format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     viewAspect,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		var view vk.ImageView
		if res := vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &view); res != vk.Success {
			err := fmt.Errorf("failed to create image view: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return nil, err
		}
		image.View = view
	}

	return image, nil
}

func (vi *VulkanImage) ImageDestroy(context *VulkanContext) {
	if vi.View != vk.NullImageView {
		vk.DestroyImageView(context.Device.LogicalDevice, vi.View, context.Allocator)
		vi.View = vk.NullImageView
	}
	if vi.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, vi.Memory, context.Allocator)
		vi.Memory = vk.NullDeviceMemory
	}
	if vi.Handle != vk.NullImage {
		vk.DestroyImage(context.Device.LogicalDevice, vi.Handle, context.Allocator)
		vi.Handle = vk.NullImage
	}
}
