package grid

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/logging"
)

// Slot directory files.
const (
	InitDataFile = "init_data.xml"
	FinishFile   = "boinc_finish_called"
)

// initData is the subset of init_data.xml the program reads.
type initData struct {
	XMLName      xml.Name `xml:"app_init_data"`
	GPUType      string   `xml:"gpu_type"`
	OpenCLIndex  *int     `xml:"gpu_opencl_dev_index"`
	GPUDeviceNum *int     `xml:"gpu_device_num"`
	SlotNumber   int      `xml:"slot"`
	WorkunitName string   `xml:"wu_name"`
	ResultName   string   `xml:"result_name"`
}

// SlotClient speaks the slot-directory protocol: the grid client writes
// init_data.xml before launch and waits for the finish file.
type SlotClient struct {
	dir  string
	data *initData
}

// NewSlotClient creates a client for the slot directory dir.
func NewSlotClient(dir string) *SlotClient {
	if dir == "" {
		dir = "."
	}
	return &SlotClient{dir: dir}
}

// Init reads init_data.xml if present. Its absence means standalone.
func (c *SlotClient) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("slot directory %s: %w", c.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("slot directory %s is not a directory", c.dir)
	}

	path := filepath.Join(c.dir, InitDataFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("No %s in %s, running standalone", InitDataFile, c.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data initData
	if err := xml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.data = &data
	logging.Debug("Slot %d: workunit %q result %q", data.SlotNumber, data.WorkunitName, data.ResultName)
	return nil
}

func (c *SlotClient) IsStandalone() bool {
	return c.data == nil
}

// AssignedDevice returns the device named in init_data.xml. A missing index
// yields DeviceID -1, which callers treat as no assignment.
func (c *SlotClient) AssignedDevice(ctx context.Context) (device.Assignment, error) {
	if c.data == nil {
		return device.Assignment{}, errors.New("not running under a grid client")
	}
	a := device.Assignment{PlatformID: c.data.GPUType, DeviceID: -1}
	switch {
	case c.data.OpenCLIndex != nil:
		a.DeviceID = *c.data.OpenCLIndex
	case c.data.GPUDeviceNum != nil:
		a.DeviceID = *c.data.GPUDeviceNum
	}
	return a, nil
}

// Finish writes the finish file holding status.
func (c *SlotClient) Finish(ctx context.Context, status int) error {
	path := filepath.Join(c.dir, FinishFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(status)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
