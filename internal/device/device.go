// Package device implements the device catalog: enumeration, description and
// selection of the compute devices exposed by a Platform.
//
// The catalog enumerates once when it is built. Device topology is assumed to
// stay stable for the lifetime of a run, so every query afterwards answers from
// that snapshot and repeated calls return identical results.
//
// A device is addressed through a Handle: either a local index into the
// catalog, or an Assignment (platform id, device id) injected by a managed grid
// client. The engine built from a handle owns it until the run ends.
package device

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/concave-dev/gfnprobe/internal/apperr"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/validate"
	"github.com/dustin/go-humanize"
)

// Info describes one compute device.
type Info struct {
	Index  int     // Position in the catalog
	Name   string  // Model name as reported by the platform
	Vendor string  // Vendor identifier
	Units  int     // Compute units (cores)
	MHz    float64 // Nominal clock, 0 if unknown
	Memory uint64  // Device-visible memory in bytes, 0 if unknown
}

// Platform enumerates the devices of an underlying compute platform.
type Platform interface {
	Name() string
	Devices() ([]Info, error)
}

// Assignment is a device identity supplied by a managed grid client.
type Assignment struct {
	PlatformID string `json:"platformId"`
	DeviceID   int    `json:"deviceId"`
}

// Valid reports whether both identities are present. A grid client that hands
// back an empty platform or a negative device has not assigned anything.
func (a Assignment) Valid() bool {
	return a.PlatformID != "" && a.DeviceID >= 0
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s/%d", a.PlatformID, a.DeviceID)
}

// Handle identifies the device an engine runs on.
type Handle struct {
	Index    int         // Local catalog index, used when Assigned is nil
	Assigned *Assignment // Externally injected identity
}

// Local returns a handle for a catalog index.
func Local(index int) Handle {
	return Handle{Index: index}
}

// External returns a handle for a grid-assigned identity.
func External(a Assignment) Handle {
	return Handle{Assigned: &a}
}

// IsExternal reports whether the handle came from a grid client.
func (h Handle) IsExternal() bool {
	return h.Assigned != nil
}

func (h Handle) String() string {
	if h.Assigned != nil {
		return "assigned " + h.Assigned.String()
	}
	return fmt.Sprintf("device %d", h.Index)
}

// Catalog is an enumerated, immutable view of a platform's devices.
type Catalog struct {
	platform string
	devices  []Info
}

// NewCatalog enumerates p once. Enumeration failures are engine failures; an
// empty result is not an error here (see Require).
func NewCatalog(p Platform) (*Catalog, error) {
	devices, err := p.Devices()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrEngine, err, "failed to enumerate devices")
	}
	for i := range devices {
		devices[i].Index = i
	}
	logging.Debug("Platform %s reports %d device(s)", p.Name(), len(devices))
	return &Catalog{platform: p.Name(), devices: devices}, nil
}

// Platform returns the name of the enumerated platform.
func (c *Catalog) Platform() string {
	return c.platform
}

// Count returns the number of devices.
func (c *Catalog) Count() int {
	return len(c.devices)
}

// Devices returns a copy of the device list.
func (c *Catalog) Devices() []Info {
	out := make([]Info, len(c.devices))
	copy(out, c.devices)
	return out
}

// Require fails with NoDeviceFound when the catalog is empty.
func (c *Catalog) Require() error {
	if len(c.devices) == 0 {
		return apperr.New(apperr.ErrNoDeviceFound, "No compute device")
	}
	return nil
}

// Validate fails with InvalidArgument unless 0 <= index < Count().
func (c *Catalog) Validate(index int) error {
	if err := validate.ValidateRange(index, 0, len(c.devices)-1); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "invalid device number")
	}
	return nil
}

// Resolve returns the device a handle refers to. Assigned handles are looked
// up by their device id.
func (c *Catalog) Resolve(h Handle) (Info, error) {
	if h.Assigned != nil {
		if !h.Assigned.Valid() {
			return Info{}, apperr.New(apperr.ErrGridInit, "grid client assigned no device")
		}
		id := h.Assigned.DeviceID
		if id >= len(c.devices) {
			return Info{}, apperr.New(apperr.ErrEngine,
				fmt.Sprintf("assigned device %s is not available on platform %s", h.Assigned, c.platform))
		}
		return c.devices[id], nil
	}
	if err := c.Validate(h.Index); err != nil {
		return Info{}, err
	}
	return c.devices[h.Index], nil
}

// Display writes a device table to w and returns the device count.
func (c *Catalog) Display(w io.Writer) int {
	if len(c.devices) == 0 {
		fmt.Fprintf(w, "No %s devices found\n", c.platform)
		return 0
	}

	fmt.Fprintf(w, "Platform: %s\n", c.platform)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  DEVICE\tNAME\tUNITS\tCLOCK\tMEMORY")
	for _, d := range c.devices {
		clock := "-"
		if d.MHz > 0 {
			clock = fmt.Sprintf("%.0f MHz", d.MHz)
		}
		memory := "-"
		if d.Memory > 0 {
			memory = humanize.IBytes(d.Memory)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\t%s\n", d.Index, d.Name, d.Units, clock, memory)
	}
	tw.Flush()
	fmt.Fprintln(w)
	return len(c.devices)
}
