// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package health

import "time"

// Snapshot is a point-in-time view of service health, safe to serialize
// to JSON for the health endpoint and the status command.
type Snapshot struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Since builds a healthy Snapshot for a service started at the given time.
func Since(service string, start time.Time) Snapshot {
	return Snapshot{
		Status:        "healthy",
		Service:       service,
		UptimeSeconds: time.Since(start).Seconds(),
	}
}
