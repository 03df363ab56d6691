package api

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/AvtMob/WeatherApp/internal/logger"
)

const bytesPerMB = 1024 * 1024

// SystemInfo reports process resource usage. Host and process figures are
// best effort and stay zero where the platform does not expose them.
type SystemInfo struct {
	GoVersion     string  `json:"go_version"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ProcessMemMB  float64 `json:"process_mem_mb"`
	ProcessCPU    float64 `json:"process_cpu_percent"`
	MemoryUsage   float64 `json:"memory_usage_percent"`
}

// getSystemInfo handles GET /api/v1/system
func (s *Server) getSystemInfo(c echo.Context) error {
	info := SystemInfo{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	}

	if memInfo, err := mem.VirtualMemoryWithContext(c.Request().Context()); err == nil {
		info.MemoryUsage = memInfo.UsedPercent
	} else {
		s.log.Debug("host memory unavailable", logger.Error(err))
	}

	proc, err := process.NewProcessWithContext(c.Request().Context(), int32(os.Getpid())) //nolint:gosec // G115: pids fit in int32
	if err != nil {
		s.log.Debug("process information unavailable", logger.Error(err))
		return c.JSON(http.StatusOK, info)
	}
	if procMem, err := proc.MemoryInfo(); err == nil && procMem != nil {
		info.ProcessMemMB = float64(procMem.RSS) / bytesPerMB
	}
	if procCPU, err := proc.CPUPercent(); err == nil {
		info.ProcessCPU = procCPU
	}

	return c.JSON(http.StatusOK, info)
}
