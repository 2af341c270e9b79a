package core

import "sync"

const frameAvgCount uint8 = 30

type metricsState struct {
	frameAvgCounter    uint8
	msTimes            [frameAvgCount]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

var onceMetrics sync.Once
var metrics *metricsState

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metrics = &metricsState{}
	})
	return nil
}

// MetricsUpdate folds one frame's elapsed time (seconds) into the rolling
// frame-time average and the FPS counter.
func MetricsUpdate(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	metrics.msTimes[metrics.frameAvgCounter] = frameMS
	if metrics.frameAvgCounter == frameAvgCount-1 {
		sum := 0.0
		for i := uint8(0); i < frameAvgCount; i++ {
			sum += metrics.msTimes[i]
		}
		metrics.msAvg = sum / float64(frameAvgCount)
	}
	metrics.frameAvgCounter++
	metrics.frameAvgCounter %= frameAvgCount

	metrics.accumulatedFrameMS += frameMS
	if metrics.accumulatedFrameMS > 1000 {
		metrics.fps = float64(metrics.frames)
		metrics.accumulatedFrameMS -= 1000
		metrics.frames = 0
	}

	metrics.frames++
}

func MetricsFPS() float64 {
	return metrics.fps
}

func MetricsFrameTime() float64 {
	return metrics.msAvg
}

func MetricsFrame() (float64, float64) {
	return metrics.fps, metrics.msAvg
}
