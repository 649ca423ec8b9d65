package vkd

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/core1_0"
)

const (
	ExtensionSwapchain        = "VK_KHR_swapchain"
	ExtensionDynamicRendering = "VK_KHR_dynamic_rendering"
)

// RequiredExtensions are the device extensions Init checks for
var RequiredExtensions = []string{
	ExtensionSwapchain,
	ExtensionDynamicRendering,
}

// Capabilities is an immutable snapshot of what the device reports, taken once during Init
type Capabilities struct {
	Properties  driver.DeviceProperties
	Features    driver.Features
	MemoryHeaps []driver.MemoryHeap

	extensions     *swiss.Map[string, struct{}]
	extensionNames []string
	vertexFormats  map[driver.VertexFormat]bool
}

func queryCapabilities(drv driver.Driver) (*Capabilities, error) {
	properties, err := drv.Properties()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query device properties")
	}

	features, err := drv.Features()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query device features")
	}

	heaps, err := drv.MemoryHeaps()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query device memory heaps")
	}

	extensions, err := drv.Extensions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to query device extensions")
	}

	caps := &Capabilities{
		Properties:    *properties,
		Features:      *features,
		MemoryHeaps:   heaps,
		extensions:    swiss.NewMap[string, struct{}](uint32(len(extensions))),
		vertexFormats: make(map[driver.VertexFormat]bool, len(driver.VertexFormats)),
	}

	for _, name := range extensions {
		if _, ok := caps.extensions.Get(name); ok {
			continue
		}
		caps.extensions.Put(name, struct{}{})
		caps.extensionNames = append(caps.extensionNames, name)
	}
	sort.Strings(caps.extensionNames)

	for _, format := range driver.VertexFormats {
		caps.vertexFormats[format] = drv.VertexFormatSupported(format)
	}

	return caps, nil
}

func (c *Capabilities) SupportsExtension(name string) bool {
	if c == nil || c.extensions == nil {
		return false
	}
	_, ok := c.extensions.Get(name)
	return ok
}

// Extensions returns the sorted list of device extensions
func (c *Capabilities) Extensions() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.extensionNames))
	copy(names, c.extensionNames)
	return names
}

func (c *Capabilities) VertexFormatSupported(format driver.VertexFormat) bool {
	if c == nil {
		return false
	}
	return c.vertexFormats[format]
}

func (c *Capabilities) IsIntegratedGPU() bool {
	return c != nil && c.Properties.DeviceType == core1_0.PhysicalDeviceTypeIntegratedGPU
}

// MissingCapabilities lists, by name, every required feature or extension the device lacks
func (c *Capabilities) MissingCapabilities() []string {
	var missing []string

	features := c.Features
	requiredFeatures := []struct {
		supported bool
		name      string
	}{
		{features.GeometryShader, "geometry shaders"},
		{features.LogicOp, "logical operations"},
		{features.DualSrcBlend, "dual source blending"},
		{features.ImageCubeArray, "image cube array"},
		{features.MultiDrawIndirect, "multi draw indirect"},
		{features.MultiViewport, "multi viewport"},
		{features.ShaderClipDistance, "shader clip distance"},
		{features.DrawIndirectFirstInstance, "draw indirect first instance"},
		{features.FragmentStoresAndAtomics, "fragment stores and atomics"},
		{features.ShaderDrawParameters, "shader draw parameters"},
	}

	for _, feature := range requiredFeatures {
		if !feature.supported {
			missing = append(missing, feature.name)
		}
	}

	for _, extension := range RequiredExtensions {
		if !c.SupportsExtension(extension) {
			missing = append(missing, "extension "+extension)
		}
	}

	return missing
}
