package driver

// DriverID identifies the driver implementation, using the values of VkDriverId
type DriverID uint32

const (
	DriverIDUnknown                   DriverID = 0
	DriverIDAMDProprietary            DriverID = 1
	DriverIDAMDOpenSource             DriverID = 2
	DriverIDMesaRADV                  DriverID = 3
	DriverIDNvidiaProprietary         DriverID = 4
	DriverIDIntelProprietaryWindows   DriverID = 5
	DriverIDIntelOpenSourceMesa       DriverID = 6
	DriverIDImaginationProprietary    DriverID = 7
	DriverIDQualcommProprietary       DriverID = 8
	DriverIDARMProprietary            DriverID = 9
	DriverIDGoogleSwiftshader         DriverID = 10
	DriverIDGGPProprietary            DriverID = 11
	DriverIDBroadcomProprietary       DriverID = 12
	DriverIDMesaLLVMPipe              DriverID = 13
	DriverIDMoltenVK                  DriverID = 14
	DriverIDCoreAVIProprietary        DriverID = 15
	DriverIDJuiceProprietary          DriverID = 16
	DriverIDVeriSiliconProprietary    DriverID = 17
	DriverIDMesaTurnip                DriverID = 18
	DriverIDMesaV3DV                  DriverID = 19
	DriverIDMesaPanVK                 DriverID = 20
	DriverIDSamsungProprietary        DriverID = 21
	DriverIDMesaVenus                 DriverID = 22
	DriverIDMesaDozen                 DriverID = 23
	DriverIDMesaNVK                   DriverID = 24
	DriverIDImaginationOpenSourceMesa DriverID = 25
)

var driverIDMapping = map[DriverID]string{
	DriverIDUnknown:                   "Unknown",
	DriverIDAMDProprietary:            "AMD proprietary",
	DriverIDAMDOpenSource:             "AMD open source",
	DriverIDMesaRADV:                  "Mesa RADV",
	DriverIDNvidiaProprietary:         "NVIDIA proprietary",
	DriverIDIntelProprietaryWindows:   "Intel proprietary (Windows)",
	DriverIDIntelOpenSourceMesa:       "Intel open source (Mesa)",
	DriverIDImaginationProprietary:    "Imagination proprietary",
	DriverIDQualcommProprietary:       "Qualcomm proprietary",
	DriverIDARMProprietary:            "ARM proprietary",
	DriverIDGoogleSwiftshader:         "Google SwiftShader",
	DriverIDGGPProprietary:            "GGP proprietary",
	DriverIDBroadcomProprietary:       "Broadcom proprietary",
	DriverIDMesaLLVMPipe:              "Mesa llvmpipe",
	DriverIDMoltenVK:                  "MoltenVK",
	DriverIDCoreAVIProprietary:        "CoreAVI proprietary",
	DriverIDJuiceProprietary:          "Juice proprietary",
	DriverIDVeriSiliconProprietary:    "VeriSilicon proprietary",
	DriverIDMesaTurnip:                "Mesa Turnip",
	DriverIDMesaV3DV:                  "Mesa V3DV",
	DriverIDMesaPanVK:                 "Mesa PanVK",
	DriverIDSamsungProprietary:        "Samsung proprietary",
	DriverIDMesaVenus:                 "Mesa Venus",
	DriverIDMesaDozen:                 "Mesa Dozen",
	DriverIDMesaNVK:                   "Mesa NVK",
	DriverIDImaginationOpenSourceMesa: "Imagination open source (Mesa)",
}

func (id DriverID) String() string {
	name, ok := driverIDMapping[id]
	if !ok {
		return driverIDMapping[DriverIDUnknown]
	}
	return name
}
