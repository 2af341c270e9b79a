package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/renderer/frame"
)

type VulkanBuffer struct {
	Handle    vk.Buffer
	Memory    vk.DeviceMemory
	TotalSize vk.DeviceSize

	mapped unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{TotalSize: size}

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferCreateInfo, context.Allocator, &handle); res != vk.Success {
		err := fmt.Errorf("failed to create buffer: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Handle = handle

	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryType := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, uint32(memoryFlags))
	if memoryType == -1 {
		err := fmt.Errorf("required memory type not found, buffer not valid")
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
		err := fmt.Errorf("failed to allocate buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	buffer.Memory = memory

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		err := fmt.Errorf("failed to bind buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return nil, err
	}
	return buffer, nil
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	if b.mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, b.Memory)
		b.mapped = nil
	}
	if b.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, b.Memory, context.Allocator)
		b.Memory = vk.NullDeviceMemory
	}
	if b.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, b.Handle, context.Allocator)
		b.Handle = vk.NullBuffer
	}
}

// Map keeps the whole buffer persistently mapped for CPU writes.
func (b *VulkanBuffer) Map(context *VulkanContext) error {
	if b.mapped != nil {
		return nil
	}
	var data unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, b.Memory, 0, b.TotalSize, 0, &data); res != vk.Success {
		err := fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	b.mapped = data
	return nil
}

func (b *VulkanBuffer) writeAt(offset uintptr, src []byte) {
	dst := unsafe.Add(b.mapped, offset)
	vk.Memcopy(dst, src)
}

// UploadDeviceLocal creates a device-local buffer and fills it through a
// host-visible staging buffer and a single-use transfer.
func UploadDeviceLocal(context *VulkanContext, pool vk.CommandPool, queue vk.Queue, usage vk.BufferUsageFlags, data []byte) (*VulkanBuffer, error) {
	size := vk.DeviceSize(len(data))

	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.Map(context); err != nil {
		return nil, err
	}
	staging.writeAt(0, data)

	deviceLocal, err := BufferCreate(context, size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}

	cb, err := AllocateAndBeginSingleUse(context, pool)
	if err != nil {
		deviceLocal.Destroy(context)
		return nil, err
	}
	copyRegion := vk.BufferCopy{SrcOffset: 0, DstOffset: 0, Size: size}
	vk.CmdCopyBuffer(cb.Handle, staging.Handle, deviceLocal.Handle, 1, []vk.BufferCopy{copyRegion})
	if err := cb.EndSingleUse(context, pool, queue); err != nil {
		deviceLocal.Destroy(context)
		return nil, err
	}
	return deviceLocal, nil
}

// GPU-side layouts. Field order and padding follow std140 rules for the
// shader blocks they feed.
type objectGPU struct {
	Model [16]float32
}

type passGPU struct {
	View             [16]float32
	Proj             [16]float32
	ViewProj         [16]float32
	EyePos           [3]float32
	_                float32
	RenderTargetSize [2]float32
	NearZ            float32
	FarZ             float32
	TotalTime        float32
	DeltaTime        float32
	_                [2]float32
}

func alignUp(value, alignment uint64) uint64 {
	return (value + alignment - 1) &^ (alignment - 1)
}

// ObjectUniformBuffer is one slot's persistently mapped array of per-object
// constant blocks, each padded out to the device's dynamic offset
// alignment.
type ObjectUniformBuffer struct {
	buffer   *VulkanBuffer
	stride   uint64
	capacity uint32
}

func NewObjectUniformBuffer(context *VulkanContext, capacity uint32) (*ObjectUniformBuffer, error) {
	alignment := context.Device.MinUniformBufferOffsetAlignment
	if alignment == 0 {
		alignment = 256
	}
	stride := alignUp(uint64(unsafe.Sizeof(objectGPU{})), alignment)

	buffer, err := BufferCreate(context, vk.DeviceSize(stride*uint64(capacity)),
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := buffer.Map(context); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	return &ObjectUniformBuffer{buffer: buffer, stride: stride, capacity: capacity}, nil
}

func (ob *ObjectUniformBuffer) WriteObject(index uint32, data frame.ObjectData) error {
	if index >= ob.capacity {
		err := fmt.Errorf("%w: object index %d beyond capacity %d", core.ErrResourceExhausted, index, ob.capacity)
		core.LogError(err.Error())
		return err
	}
	gpu := objectGPU{Model: data.Model.Data}
	ob.buffer.writeAt(uintptr(ob.stride)*uintptr(index), structBytes(&gpu))
	return nil
}

func (ob *ObjectUniformBuffer) Capacity() uint32 {
	return ob.capacity
}

// DynamicOffset is the byte offset of an item's block, fed to the dynamic
// uniform descriptor at bind time.
func (ob *ObjectUniformBuffer) DynamicOffset(index uint32) uint32 {
	return uint32(ob.stride * uint64(index))
}

func (ob *ObjectUniformBuffer) Destroy(context *VulkanContext) {
	ob.buffer.Destroy(context)
}

// PassUniformBuffer is one slot's persistently mapped per-pass constant
// block.
type PassUniformBuffer struct {
	buffer *VulkanBuffer
}

func NewPassUniformBuffer(context *VulkanContext) (*PassUniformBuffer, error) {
	buffer, err := BufferCreate(context, vk.DeviceSize(unsafe.Sizeof(passGPU{})),
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if err := buffer.Map(context); err != nil {
		buffer.Destroy(context)
		return nil, err
	}
	return &PassUniformBuffer{buffer: buffer}, nil
}

func (pb *PassUniformBuffer) WritePass(data frame.PassData) error {
	gpu := passGPU{
		View:             data.View.Data,
		Proj:             data.Proj.Data,
		ViewProj:         data.ViewProj.Data,
		EyePos:           [3]float32{data.EyePos.X, data.EyePos.Y, data.EyePos.Z},
		RenderTargetSize: [2]float32{data.RenderTargetSize.X, data.RenderTargetSize.Y},
		NearZ:            data.NearZ,
		FarZ:             data.FarZ,
		TotalTime:        data.TotalTime,
		DeltaTime:        data.DeltaTime,
	}
	pb.buffer.writeAt(0, structBytes(&gpu))
	return nil
}

func (pb *PassUniformBuffer) Destroy(context *VulkanContext) {
	pb.buffer.Destroy(context)
}

func structBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
