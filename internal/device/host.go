package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostPlatform exposes the host CPU packages as compute devices, one device
// per physical package. It backs the reference engine.
type HostPlatform struct{}

// Name implements Platform.
func (HostPlatform) Name() string {
	return "host"
}

// Devices implements Platform using gopsutil.
func (HostPlatform) Devices() ([]Info, error) {
	stats, err := cpu.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu info: %w", err)
	}

	// Memory is shared by every package; a failure only loses the column
	var total uint64
	if vm, err := mem.VirtualMemory(); err != nil {
		logging.Warn("Failed to read system memory: %v", err)
	} else {
		total = vm.Total
	}

	return groupPackages(stats, total), nil
}

// groupPackages folds per-logical-CPU entries (Linux) or per-package entries
// (Windows, macOS) into one Info per physical package.
func groupPackages(stats []cpu.InfoStat, memory uint64) []Info {
	byPackage := make(map[string]*Info)
	var order []string

	for _, s := range stats {
		key := s.PhysicalID
		d, ok := byPackage[key]
		if !ok {
			d = &Info{
				Name:   strings.TrimSpace(s.ModelName),
				Vendor: s.VendorID,
				MHz:    s.Mhz,
				Memory: memory,
			}
			byPackage[key] = d
			order = append(order, key)
		}
		cores := int(s.Cores)
		if cores < 1 {
			cores = 1
		}
		d.Units += cores
		if s.Mhz > d.MHz {
			d.MHz = s.Mhz
		}
	}

	sort.Strings(order)
	devices := make([]Info, 0, len(order))
	for i, key := range order {
		d := *byPackage[key]
		d.Index = i
		if d.Name == "" {
			d.Name = "host cpu"
		}
		devices = append(devices, d)
	}
	return devices
}
