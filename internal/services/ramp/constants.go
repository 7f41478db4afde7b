package ramp

import "time"

const (
	// Payment reference prefix, format NP-<14-digit-timestamp>-<6-hex-chars>.
	referencePrefix  = "NP"
	referenceTimeFmt = "20060102150405"

	statsCacheTTL = 5 * time.Minute
)
