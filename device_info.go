package vkd

import (
	"fmt"

	"github.com/vkngwrapper/arsenal/vkd/driver"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// DeviceType is the hardware family of the device
type DeviceType uint32

const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeAMD
	DeviceTypeNvidia
	DeviceTypeIntel
	DeviceTypeApple
	DeviceTypeQualcomm
	DeviceTypeSoftware
)

var deviceTypeMapping = map[DeviceType]string{
	DeviceTypeUnknown:  "Unknown",
	DeviceTypeAMD:      "AMD",
	DeviceTypeNvidia:   "NVIDIA",
	DeviceTypeIntel:    "Intel",
	DeviceTypeApple:    "Apple",
	DeviceTypeQualcomm: "Qualcomm",
	DeviceTypeSoftware: "Software",
}

func (t DeviceType) String() string {
	return deviceTypeMapping[t]
}

// DriverType classifies who ships the driver
type DriverType uint32

const (
	DriverTypeAny DriverType = iota
	DriverTypeOfficial
	DriverTypeOpenSource
	DriverTypeSoftware
)

var driverTypeMapping = map[DriverType]string{
	DriverTypeAny:        "Any",
	DriverTypeOfficial:   "Official",
	DriverTypeOpenSource: "OpenSource",
	DriverTypeSoftware:   "Software",
}

func (t DriverType) String() string {
	return driverTypeMapping[t]
}

func (d *Device) DeviceType() DeviceType {
	caps := d.Capabilities()
	if caps == nil {
		return DeviceTypeUnknown
	}

	switch caps.Properties.DriverID {
	case driver.DriverIDAMDProprietary, driver.DriverIDAMDOpenSource, driver.DriverIDMesaRADV:
		return DeviceTypeAMD
	case driver.DriverIDNvidiaProprietary, driver.DriverIDMesaNVK:
		return DeviceTypeNvidia
	case driver.DriverIDIntelProprietaryWindows, driver.DriverIDIntelOpenSourceMesa:
		return DeviceTypeIntel
	case driver.DriverIDQualcommProprietary:
		return DeviceTypeQualcomm
	case driver.DriverIDMoltenVK:
		return DeviceTypeApple
	case driver.DriverIDMesaLLVMPipe, driver.DriverIDGoogleSwiftshader:
		return DeviceTypeSoftware
	}

	if caps.Properties.DeviceType == core1_0.PhysicalDeviceTypeCPU {
		return DeviceTypeSoftware
	}
	return DeviceTypeUnknown
}

func (d *Device) DriverType() DriverType {
	caps := d.Capabilities()
	if caps == nil {
		return DriverTypeAny
	}

	switch caps.Properties.DriverID {
	case driver.DriverIDAMDProprietary,
		driver.DriverIDIntelProprietaryWindows,
		driver.DriverIDNvidiaProprietary,
		driver.DriverIDQualcommProprietary:
		return DriverTypeOfficial
	case driver.DriverIDMoltenVK,
		driver.DriverIDAMDOpenSource,
		driver.DriverIDMesaRADV,
		driver.DriverIDIntelOpenSourceMesa,
		driver.DriverIDMesaNVK:
		return DriverTypeOpenSource
	case driver.DriverIDMesaLLVMPipe, driver.DriverIDGoogleSwiftshader:
		return DriverTypeSoftware
	}
	return DriverTypeAny
}

var vendorNames = map[uint32]string{
	VendorAMD:      "Advanced Micro Devices",
	VendorNvidia:   "NVIDIA Corporation",
	VendorIntel:    "Intel Corporation",
	VendorApple:    "Apple",
	VendorQualcomm: "Qualcomm",
	VendorARM:      "ARM",
	VendorMesa:     "Mesa",
}

// VendorName returns the name of the hardware vendor, falling back to the driver's name for
// vendors without a registered PCI id
func (d *Device) VendorName() string {
	caps := d.Capabilities()
	if caps == nil {
		return ""
	}

	name, ok := vendorNames[caps.Properties.VendorID]
	if ok {
		return name
	}
	return caps.Properties.DriverName
}

// DriverVersion formats the driver version the way the vendor does
func (d *Device) DriverVersion() string {
	caps := d.Capabilities()
	if caps == nil {
		return ""
	}

	return formatDriverVersion(caps.Properties)
}

func formatDriverVersion(props driver.DeviceProperties) string {
	version := props.DriverVersion

	switch props.DriverID {
	case driver.DriverIDNvidiaProprietary:
		return fmt.Sprintf("%d.%d.%d.%d",
			(version>>22)&0x3ff,
			(version>>14)&0xff,
			(version>>6)&0xff,
			version&0x3f,
		)
	case driver.DriverIDIntelProprietaryWindows:
		return fmt.Sprintf("%d.%d", version>>14, version&0x3fff)
	}

	if props.DriverInfo != "" {
		return props.DriverInfo
	}

	return fmt.Sprintf("%d.%d.%d", version>>22, (version>>12)&0x3ff, version&0xfff)
}
