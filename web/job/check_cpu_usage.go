package job

import (
	"time"

	"blogql/config"
	"blogql/logger"
	"blogql/util/common"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CheckCpuJob warns when CPU usage stays above the configured threshold.
type CheckCpuJob struct{}

func NewCheckCpuJob() *CheckCpuJob {
	return new(CheckCpuJob)
}

func (j *CheckCpuJob) Run() {
	defer common.Recover("cpu watch job")

	threshold := config.GetCPUThreshold()

	percent, err := cpu.Percent(1*time.Minute, false)
	if err == nil && len(percent) > 0 && percent[0] > float64(threshold) {
		logger.Warningf("cpu usage %.2f%% exceeds threshold %d%%", percent[0], threshold)
	}
}
