package vulkan

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/core/v2/core1_2"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v2/ext_memory_budget"
	"github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2"
	khr_get_physical_device_properties2_shim "github.com/vkngwrapper/extensions/v2/khr_get_physical_device_properties2/shim"
)

type extensionData struct {
	// Core 1.1 is active on the device: shader draw parameters can be queried
	Core11 bool
	// Core 1.2 is active on the device: the 1.2 feature block, driver properties and timeline
	// semaphores can be used
	Core12 core1_2.Device

	GetPhysicalDeviceProperties2 khr_get_physical_device_properties2_shim.Shim
	UseMemoryBudget              bool
	DebugUtils                   ext_debug_utils.Extension
}

func newExtensionData(device core1_0.Device, physicalDevice core1_0.PhysicalDevice, instance core1_0.Instance) *extensionData {
	data := &extensionData{}

	if core1_1.PromoteDevice(device) != nil {
		data.Core11 = true
	}

	data.Core12 = core1_2.PromoteDevice(device)

	physicalDevice11 := core1_1.PromoteInstanceScopedPhysicalDevice(physicalDevice)
	if physicalDevice11 != nil {
		data.GetPhysicalDeviceProperties2 = physicalDevice11
	}

	// khr_get_physical_device_properties2 if core 1.1 is not active
	if data.GetPhysicalDeviceProperties2 == nil && instance.IsInstanceExtensionActive(khr_get_physical_device_properties2.ExtensionName) {
		extension := khr_get_physical_device_properties2.CreateExtensionFromInstance(instance)
		data.GetPhysicalDeviceProperties2 = khr_get_physical_device_properties2_shim.NewShim(extension, physicalDevice)
	}

	// ext_memory_budget
	if data.GetPhysicalDeviceProperties2 != nil && device.IsDeviceExtensionActive(ext_memory_budget.ExtensionName) {
		data.UseMemoryBudget = true
	}

	// ext_debug_utils
	if instance.IsInstanceExtensionActive(ext_debug_utils.ExtensionName) {
		data.DebugUtils = ext_debug_utils.CreateExtensionFromInstance(instance)
	}

	return data
}
