package vulkan

import (
	"encoding/binary"
	"fmt"
	"os"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
)

// VulkanShaderStage holds one compiled shader module and its pipeline stage
// description.
type VulkanShaderStage struct {
	Handle                vk.ShaderModule
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// NewShaderStage loads a SPIR-V binary from disk and wraps it in a shader
// module for the given stage.
func NewShaderStage(context *VulkanContext, path string, stageFlag vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("unable to read shader module %s: %w", path, err)
		core.LogError(err.Error())
		return nil, err
	}
	if len(code) == 0 || len(code)%4 != 0 {
		err := fmt.Errorf("shader module %s is not valid SPIR-V (%d bytes)", path, len(code))
		core.LogError(err.Error())
		return nil, err
	}

	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    words,
	}
	var handle vk.ShaderModule
	if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create shader module %s: %s", path, VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}

	return &VulkanShaderStage{
		Handle: handle,
		ShaderStageCreateInfo: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  stageFlag,
			Module: handle,
			PName:  VulkanSafeString("main"),
		},
	}, nil
}

func (vs *VulkanShaderStage) Destroy(context *VulkanContext) {
	if vs.Handle != vk.NullShaderModule {
		vk.DestroyShaderModule(context.Device.LogicalDevice, vs.Handle, context.Allocator)
		vs.Handle = vk.NullShaderModule
	}
}
