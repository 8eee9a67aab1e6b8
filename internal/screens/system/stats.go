package system

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Reading is one measured value. OK is false when the source was unavailable.
type Reading struct {
	Value float64
	OK    bool
}

func reading(v float64, err error) Reading {
	if err != nil {
		return Reading{}
	}
	return Reading{Value: v, OK: true}
}

// Stats is a snapshot of host health.
type Stats struct {
	Hostname string

	// CPU is the one minute load average as a percentage of the cores.
	CPU Reading

	// Load1 is the raw one minute load average.
	Load1 Reading

	// Memory is the used share of memory in percent.
	Memory Reading

	// Temperature is the SoC temperature in degrees Celsius.
	Temperature Reading

	// Disk is the used share of the root filesystem in percent.
	Disk Reading

	Uptime time.Duration
}

// Collector reads host statistics from procfs and sysfs below Root.
type Collector struct {
	// Root is prepended to /proc and /sys paths. Empty means "/".
	Root string

	// DiskPath is the filesystem whose usage is reported.
	DiskPath string

	// CPUs is the core count used to scale the load average.
	CPUs int
}

// NewCollector returns a collector for the running host.
func NewCollector() *Collector {
	return &Collector{Root: "/", DiskPath: "/", CPUs: runtime.NumCPU()}
}

func (c *Collector) path(p string) string {
	root := c.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(root, p)
}

// Collect gathers every statistic it can. Failures leave the reading unset.
func (c *Collector) Collect() Stats {
	var st Stats
	st.Hostname, _ = os.Hostname()

	load, err := c.loadAverage()
	st.Load1 = reading(load, err)
	if err == nil && c.CPUs > 0 {
		st.CPU = Reading{Value: min(load/float64(c.CPUs)*100, 100), OK: true}
	}
	st.Memory = reading(c.memoryUsed())
	st.Temperature = reading(c.temperature())
	st.Disk = reading(diskUsed(c.DiskPath))
	if up, err := c.uptime(); err == nil {
		st.Uptime = up
	}
	return st
}

func (c *Collector) loadAverage() (float64, error) {
	data, err := os.ReadFile(c.path("proc/loadavg"))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("loadavg: empty")
	}
	return strconv.ParseFloat(fields[0], 64)
}

func (c *Collector) memoryUsed() (float64, error) {
	f, err := os.Open(c.path("proc/meminfo"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total, available float64
	var haveTotal, haveAvail bool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		switch key {
		case "MemTotal":
			total, haveTotal = v, true
		case "MemAvailable":
			available, haveAvail = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if !haveTotal || !haveAvail || total <= 0 {
		return 0, fmt.Errorf("meminfo: missing MemTotal or MemAvailable")
	}
	return (total - available) / total * 100, nil
}

func (c *Collector) temperature() (float64, error) {
	data, err := os.ReadFile(c.path("sys/class/thermal/thermal_zone0/temp"))
	if err != nil {
		return 0, err
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, err
	}
	return milli / 1000, nil
}

func (c *Collector) uptime() (time.Duration, error) {
	data, err := os.ReadFile(c.path("proc/uptime"))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("uptime: empty")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}
