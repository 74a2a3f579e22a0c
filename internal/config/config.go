// Package config provides configuration helpers for go-turret commands.
package config

import (
	"os"
	"strconv"
)

// Defaults used when the environment does not override them.
const (
	DefaultProfile       = "radar"
	DefaultScenario      = "crossing"
	DefaultLogLevel      = "info"
	DefaultDashboardPort = 8181
)

// Profile returns the controller profile from TURRET_PROFILE or default.
func Profile() string {
	if p := os.Getenv("TURRET_PROFILE"); p != "" {
		return p
	}
	return DefaultProfile
}

// Scenario returns the arena scenario from TURRET_SCENARIO or default.
func Scenario() string {
	if s := os.Getenv("TURRET_SCENARIO"); s != "" {
		return s
	}
	return DefaultScenario
}

// LogLevel returns the log level from TURRET_LOG_LEVEL or default.
func LogLevel() string {
	if l := os.Getenv("TURRET_LOG_LEVEL"); l != "" {
		return l
	}
	return DefaultLogLevel
}

// DashboardPort returns the dashboard port from TURRET_DASHBOARD_PORT.
// Falls back to the default if unset or not a valid port. 0 disables the
// dashboard.
func DashboardPort() int {
	v := os.Getenv("TURRET_DASHBOARD_PORT")
	if v == "" {
		return DefaultDashboardPort
	}
	port, err := strconv.Atoi(v)
	if err != nil || port < 0 || port > 65535 {
		return DefaultDashboardPort
	}
	return port
}

// DashboardURL returns the websocket URL of a local dashboard.
func DashboardURL(port int) string {
	return "ws://localhost:" + strconv.Itoa(port) + "/ws/telemetry"
}
