package vkd

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/core1_0"
	"go.uber.org/mock/gomock"
)

func TestDeriveWorkarounds(t *testing.T) {
	testCases := []struct {
		name     string
		vendor   uint32
		features func(features *driver.Features)
		formats  map[driver.VertexFormat]bool
		force    bool
		expected Workarounds
	}{
		{
			name:     "CapableNvidia",
			vendor:   VendorNvidia,
			formats:  map[driver.VertexFormat]bool{driver.VertexFormatR8G8B8Unorm: true},
			expected: Workarounds{},
		},
		{
			name:    "AMDPixelFormats",
			vendor:  VendorAMD,
			formats: map[driver.VertexFormat]bool{driver.VertexFormatR8G8B8Unorm: true},
			expected: Workarounds{
				NotAlignedPixelFormats: true,
			},
		},
		{
			name:   "AppleWithoutOutputLayer",
			vendor: VendorApple,
			features: func(features *driver.Features) {
				features.ShaderOutputLayer = false
				features.ShaderOutputViewportIndex = false
			},
			formats: map[driver.VertexFormat]bool{driver.VertexFormatR8G8B8Unorm: true},
			expected: Workarounds{
				NotAlignedPixelFormats:    true,
				ShaderOutputLayer:         true,
				ShaderOutputViewportIndex: true,
			},
		},
		{
			name:    "IntelWithoutPackedVertexFormat",
			vendor:  VendorIntel,
			formats: map[driver.VertexFormat]bool{},
			expected: Workarounds{
				VertexFormats: VertexFormatWorkarounds{R8G8B8: true},
			},
		},
		{
			name:    "Forced",
			vendor:  VendorNvidia,
			formats: map[driver.VertexFormat]bool{driver.VertexFormatR8G8B8Unorm: true},
			force:   true,
			expected: Workarounds{
				NotAlignedPixelFormats:    true,
				ShaderOutputLayer:         true,
				ShaderOutputViewportIndex: true,
				VertexFormats:             VertexFormatWorkarounds{R8G8B8: true},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			features := completeFeatures()
			if testCase.features != nil {
				testCase.features(features)
			}

			caps := &Capabilities{
				Properties:    driver.DeviceProperties{VendorID: testCase.vendor},
				Features:      *features,
				vertexFormats: testCase.formats,
			}

			workarounds := deriveWorkarounds(caps, testCase.force)
			require.Equal(t, testCase.expected, workarounds)
			require.Equal(t, workarounds, deriveWorkarounds(caps, testCase.force))
		})
	}
}

func TestDeviceWorkaroundsFromCapabilities(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{
		Properties: driver.DeviceProperties{
			VendorID:   VendorAMD,
			DeviceName: "Integrated AMD",
			DeviceType: core1_0.PhysicalDeviceTypeIntegratedGPU,
			DriverID:   driver.DriverIDMesaRADV,
		},
		UnsupportedVertexFormats: []driver.VertexFormat{driver.VertexFormatR8G8B8Unorm},
	})

	require.Equal(t, Workarounds{
		NotAlignedPixelFormats: true,
		VertexFormats:          VertexFormatWorkarounds{R8G8B8: true},
	}, device.Workarounds())
	require.True(t, device.Capabilities().IsIntegratedGPU())
	require.False(t, device.Capabilities().VertexFormatSupported(driver.VertexFormatR8G8B8Unorm))
	require.True(t, device.Capabilities().VertexFormatSupported(driver.VertexFormatR32G32B32Sfloat))
	require.Equal(t, DeviceTypeAMD, device.DeviceType())
	require.Equal(t, DriverTypeOpenSource, device.DriverType())
}

func TestDeviceForceWorkarounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := readyDevice(t, ctrl, DeviceSetup{
		Options: CreateOptions{
			Flags: DeviceCreateForceWorkarounds,
		},
	})

	workarounds := device.Workarounds()
	require.True(t, workarounds.NotAlignedPixelFormats)
	require.True(t, workarounds.ShaderOutputLayer)
	require.True(t, workarounds.ShaderOutputViewportIndex)
	require.True(t, workarounds.VertexFormats.R8G8B8)
}

func TestCapabilitiesMissing(t *testing.T) {
	caps := &Capabilities{
		Features: *completeFeatures(),
	}
	require.Equal(t, []string{
		"extension " + ExtensionSwapchain,
		"extension " + ExtensionDynamicRendering,
	}, caps.MissingCapabilities())

	var nilCaps *Capabilities
	require.False(t, nilCaps.SupportsExtension(ExtensionSwapchain))
	require.Nil(t, nilCaps.Extensions())
	require.False(t, nilCaps.IsIntegratedGPU())
}
