package frigate

import "fmt"

// DetectorType is the only detector implementation this tool configures.
const DetectorType = "memryx"

// GenerateDetectors builds one detector entry per accelerator device, named
// memx0..memxN-1 with device paths PCIe:0..PCIe:N-1. A non-positive count
// still yields a single default entry at index 0 so the generated document is
// usable on a host where discovery found nothing.
func GenerateDetectors(count int) []Detector {
	if count <= 0 {
		count = 1
	}
	detectors := make([]Detector, 0, count)
	for i := 0; i < count; i++ {
		detectors = append(detectors, Detector{
			Name:   fmt.Sprintf("memx%d", i),
			Type:   DetectorType,
			Device: fmt.Sprintf("PCIe:%d", i),
		})
	}
	return detectors
}
