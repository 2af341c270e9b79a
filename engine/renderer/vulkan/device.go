package vulkan

import (
	"fmt"
	"runtime"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
)

type VulkanDevice struct {
	PhysicalDevice     vk.PhysicalDevice
	LogicalDevice      vk.Device
	SwapchainSupport   VulkanSwapchainSupportInfo
	GraphicsQueueIndex int32
	PresentQueueIndex  int32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures

	DepthFormat vk.Format

	// Dynamic uniform offsets must be multiples of this device limit.
	MinUniformBufferOffsetAlignment uint64

	// Wireframe rendering needs the fillModeNonSolid feature; when the
	// device lacks it the wireframe pipeline falls back to solid fill.
	SupportsFillModeNonSolid bool
}

func DeviceCreate(context *VulkanContext) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}
	device := context.Device

	core.LogInfo("Creating logical device...")

	// Do not create additional queues for shared indices.
	presentSharesGraphicsQueue := device.GraphicsQueueIndex == device.PresentQueueIndex
	indices := []uint32{uint32(device.GraphicsQueueIndex)}
	if !presentSharesGraphicsQueue {
		indices = append(indices, uint32(device.PresentQueueIndex))
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(indices))
	for i := range indices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: indices[i],
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	deviceFeatures := vk.PhysicalDeviceFeatures{}
	if device.SupportsFillModeNonSolid {
		deviceFeatures.FillModeNonSolid = vk.True
	}

	extensionNames := []string{vk.KhrSwapchainExtensionName}
	if portabilitySubsetPresent(device.PhysicalDevice) {
		core.LogInfo("Adding required extension 'VK_KHR_portability_subset'.")
		extensionNames = append(extensionNames, "VK_KHR_portability_subset")
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensionNames),
	}

	if res := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &device.LogicalDevice); res != vk.Success {
		err := fmt.Errorf("failed to create logical device: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Logical device created.")

	vk.GetDeviceQueue(device.LogicalDevice, uint32(device.GraphicsQueueIndex), 0, &device.GraphicsQueue)
	vk.GetDeviceQueue(device.LogicalDevice, uint32(device.PresentQueueIndex), 0, &device.PresentQueue)
	core.LogInfo("Queues obtained.")

	return nil
}

func DeviceDestroy(context *VulkanContext) {
	context.Device.GraphicsQueue = nil
	context.Device.PresentQueue = nil

	core.LogInfo("Destroying logical device...")
	if context.Device.LogicalDevice != nil {
		vk.DestroyDevice(context.Device.LogicalDevice, context.Allocator)
		context.Device.LogicalDevice = nil
	}

	// Physical devices are not destroyed.
	context.Device.PhysicalDevice = nil
	context.Device.SwapchainSupport = VulkanSwapchainSupportInfo{}
	context.Device.GraphicsQueueIndex = -1
	context.Device.PresentQueueIndex = -1
}

func DeviceQuerySwapchainSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface, supportInfo *VulkanSwapchainSupportInfo) error {
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, surface, &supportInfo.Capabilities); res != vk.Success {
		err := fmt.Errorf("failed to get physical device surface capabilities: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	supportInfo.Capabilities.Deref()

	if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &supportInfo.FormatCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to get physical device surface formats: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if supportInfo.FormatCount != 0 {
		supportInfo.Formats = make([]vk.SurfaceFormat, supportInfo.FormatCount)
		if res := vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, surface, &supportInfo.FormatCount, supportInfo.Formats); res != vk.Success {
			err := fmt.Errorf("failed to get physical device surface formats: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		for i := range supportInfo.Formats {
			supportInfo.Formats[i].Deref()
		}
	}

	if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &supportInfo.PresentModeCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to get physical device surface present modes: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if supportInfo.PresentModeCount != 0 {
		supportInfo.PresentModes = make([]vk.PresentMode, supportInfo.PresentModeCount)
		if res := vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, surface, &supportInfo.PresentModeCount, supportInfo.PresentModes); res != vk.Success {
			err := fmt.Errorf("failed to get physical device surface present modes: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
	}
	return nil
}

func DeviceDetectDepthFormat(device *VulkanDevice) bool {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	flags := vk.FormatFeatureDepthStencilAttachmentBit
	for _, candidate := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, candidate, &properties)
		properties.Deref()
		if (vk.FormatFeatureFlagBits(properties.LinearTilingFeatures)&flags) == flags ||
			(vk.FormatFeatureFlagBits(properties.OptimalTilingFeatures)&flags) == flags {
			device.DepthFormat = candidate
			return true
		}
	}
	return false
}

func portabilitySubsetPresent(physicalDevice vk.PhysicalDevice) bool {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &count, nil); res != vk.Success || count == 0 {
		return false
	}
	available := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &count, available); res != vk.Success {
		return false
	}
	for i := range available {
		available[i].Deref()
		endIdx := FindFirstZeroInByteArray(available[i].ExtensionName[:])
		if vk.ToString(available[i].ExtensionName[:endIdx+1]) == "VK_KHR_portability_subset" {
			return true
		}
	}
	return false
}

func selectPhysicalDevice(context *VulkanContext) error {
	var physicalDeviceCount uint32
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, nil); res != vk.Success {
		err := fmt.Errorf("failed to enumerate physical devices: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if physicalDeviceCount == 0 {
		err := fmt.Errorf("no devices which support Vulkan were found")
		core.LogFatal(err.Error())
		return err
	}
	physicalDevices := make([]vk.PhysicalDevice, physicalDeviceCount)
	if res := vk.EnumeratePhysicalDevices(context.Instance, &physicalDeviceCount, physicalDevices); res != vk.Success {
		err := fmt.Errorf("failed to enumerate physical devices: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}

	requireDiscrete := runtime.GOOS != "darwin"

	for pass := 0; pass < 2; pass++ {
		for _, candidate := range physicalDevices {
			var properties vk.PhysicalDeviceProperties
			vk.GetPhysicalDeviceProperties(candidate, &properties)
			properties.Deref()
			properties.Limits.Deref()

			var features vk.PhysicalDeviceFeatures
			vk.GetPhysicalDeviceFeatures(candidate, &features)
			features.Deref()

			// first pass insists on a discrete GPU, second takes anything
			if pass == 0 && requireDiscrete && properties.DeviceType != vk.PhysicalDeviceTypeDiscreteGpu {
				continue
			}

			graphicsIndex, presentIndex, ok := findQueueFamilies(candidate, context.Surface)
			if !ok {
				continue
			}

			device := context.Device
			device.PhysicalDevice = candidate
			device.Properties = properties
			device.Features = features
			device.GraphicsQueueIndex = graphicsIndex
			device.PresentQueueIndex = presentIndex
			device.MinUniformBufferOffsetAlignment = uint64(properties.Limits.MinUniformBufferOffsetAlignment)
			device.SupportsFillModeNonSolid = features.FillModeNonSolid == vk.True

			if err := DeviceQuerySwapchainSupport(candidate, context.Surface, &device.SwapchainSupport); err != nil {
				continue
			}
			if device.SwapchainSupport.FormatCount == 0 || device.SwapchainSupport.PresentModeCount == 0 {
				continue
			}

			endIdx := FindFirstZeroInByteArray(properties.DeviceName[:])
			core.LogInfo("Selected device: '%s'.", vk.ToString(properties.DeviceName[:endIdx+1]))
			return nil
		}
	}

	err := fmt.Errorf("no physical device met the requirements")
	core.LogError(err.Error())
	return err
}

func findQueueFamilies(physicalDevice vk.PhysicalDevice, surface vk.Surface) (int32, int32, bool) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, queueFamilies)

	graphicsIndex := int32(-1)
	presentIndex := int32(-1)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		if graphicsIndex == -1 && queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphicsIndex = int32(i)
		}
		var supportsPresent vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(physicalDevice, i, surface, &supportsPresent)
		if presentIndex == -1 && supportsPresent == vk.True {
			presentIndex = int32(i)
		}
	}
	return graphicsIndex, presentIndex, graphicsIndex != -1 && presentIndex != -1
}
