package vkd

import "github.com/vkngwrapper/arsenal/vkd/driver"

const (
	VendorAMD      uint32 = 0x1002
	VendorApple    uint32 = 0x106B
	VendorARM      uint32 = 0x13B5
	VendorIntel    uint32 = 0x8086
	VendorNvidia   uint32 = 0x10DE
	VendorQualcomm uint32 = 0x5143
	VendorMesa     uint32 = 0x10005
)

type VertexFormatWorkarounds struct {
	// R8G8B8 is set when three-component 8-bit vertex attributes must be widened to four components
	R8G8B8 bool
}

// Workarounds are flags that make higher layers avoid known hardware or driver defects
type Workarounds struct {
	// NotAlignedPixelFormats is set when packed pixel formats such as R8G8B8 cannot be used for
	// textures and must be padded
	NotAlignedPixelFormats bool

	// ShaderOutputLayer is set when vertex shaders cannot write the layer index
	ShaderOutputLayer bool

	// ShaderOutputViewportIndex is set when vertex shaders cannot write the viewport index
	ShaderOutputViewportIndex bool

	VertexFormats VertexFormatWorkarounds
}

// deriveWorkarounds is deterministic in its inputs: the same capabilities always produce the same set
func deriveWorkarounds(caps *Capabilities, force bool) Workarounds {
	if force {
		return Workarounds{
			NotAlignedPixelFormats:    true,
			ShaderOutputLayer:         true,
			ShaderOutputViewportIndex: true,
			VertexFormats: VertexFormatWorkarounds{
				R8G8B8: true,
			},
		}
	}

	vendor := caps.Properties.VendorID

	return Workarounds{
		NotAlignedPixelFormats:    vendor == VendorAMD || vendor == VendorApple,
		ShaderOutputLayer:         !caps.Features.ShaderOutputLayer,
		ShaderOutputViewportIndex: !caps.Features.ShaderOutputViewportIndex,
		VertexFormats: VertexFormatWorkarounds{
			R8G8B8: !caps.VertexFormatSupported(driver.VertexFormatR8G8B8Unorm),
		},
	}
}
