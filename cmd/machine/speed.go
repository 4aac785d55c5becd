package machine

import (
	"time"

	"github.com/Manu343726/cinta/pkg/utils"
)

// Speed presets
var speedPresets = []time.Duration{
	0,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	200 * time.Millisecond,
	500 * time.Millisecond,
	1000 * time.Millisecond,
}
var speedNames = []string{"instant", "very fast", "fast", "normal", "slow", "very slow", "ultra slow"}

// getSpeedName returns the name for a delay value
func getSpeedName(delay time.Duration) string {
	i := utils.IndexFunc(speedPresets, func(preset time.Duration) bool { return delay <= preset })
	if i < 0 {
		return delay.String()
	}
	return speedNames[i]
}

// decreaseDelay returns the next faster speed
func decreaseDelay(currentDelay time.Duration) time.Duration {
	for i := len(speedPresets) - 1; i >= 0; i-- {
		if speedPresets[i] < currentDelay {
			return speedPresets[i]
		}
	}
	return 0
}

// increaseDelay returns the next slower speed
func increaseDelay(currentDelay time.Duration) time.Duration {
	for _, preset := range speedPresets {
		if preset > currentDelay {
			return preset
		}
	}
	return speedPresets[len(speedPresets)-1]
}
