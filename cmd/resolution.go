package cmd

import (
	"fmt"
	"strings"
)

var resolutions = map[string][2]uint{
	"low":  {320, 180},
	"med":  {960, 540},
	"high": {1920, 1080},
}

func parseResolution(name string) (uint, uint, error) {
	dimensions, ok := resolutions[strings.ToLower(name)]
	if !ok {
		return 0, 0, fmt.Errorf("unknown resolution %q, expected low, med or high", name)
	}
	return dimensions[0], dimensions[1], nil
}
