package sidecar

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultHost is the backend bind address when ORATIO_HOST is unset.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the backend bind port when ORATIO_PORT is unset or unparsable.
	DefaultPort uint16 = 1421

	envHost    = "ORATIO_HOST"
	envPort    = "ORATIO_PORT"
	envDataDir = "ORATIO_DATA_DIR"
)

// ErrDataDir indicates the backend data directory could not be created.
var ErrDataDir = errors.New("data directory unavailable")

// LaunchConfig carries everything needed to start the backend process.
type LaunchConfig struct {
	Interpreter string
	Script      string
	Root        string
	Host        string
	Port        uint16
	DataDir     string
}

// URL returns the backend base address.
func (c LaunchConfig) URL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// BuildConfig derives the backend bind address and data directory for a
// launch. Values come from the process environment first, then a .env file
// under root, then defaults. The data directory is created if missing; the
// caller fills Interpreter and Script after resolution.
func BuildConfig(root, appDataDir string) (LaunchConfig, error) {
	host, port := effectiveHostPort(readDotenv(root))
	dataDir := effectiveDataDir(root, appDataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return LaunchConfig{}, fmt.Errorf("%w: %v", ErrDataDir, err)
	}
	return LaunchConfig{Root: root, Host: host, Port: port, DataDir: dataDir}, nil
}

func readDotenv(root string) map[string]string {
	fileEnv, _ := godotenv.Read(filepath.Join(root, ".env"))
	return fileEnv
}

func effectiveHostPort(fileEnv map[string]string) (string, uint16) {
	host := lookupEnv(envHost, fileEnv)
	if host == "" {
		host = DefaultHost
	}
	port := DefaultPort
	if raw := lookupEnv(envPort, fileEnv); raw != "" {
		if v, ok := parsePort(raw); ok {
			port = v
		}
	}
	return host, port
}

func effectiveDataDir(root, appDataDir string) string {
	if strings.TrimSpace(appDataDir) != "" {
		return appDataDir
	}
	return filepath.Join(root, "data")
}

// lookupEnv prefers the process environment over the .env file. Empty values
// count as unset so a stray blank assignment cannot blank the bind host.
func lookupEnv(key string, fileEnv map[string]string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return strings.TrimSpace(fileEnv[key])
}

// parsePort reports whether raw is a valid port number. Anything else makes
// the caller keep the default rather than raise an error.
func parsePort(raw string) (uint16, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
