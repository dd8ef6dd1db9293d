// Package analytics reports anonymous, opt-out usage pings: which compiler
// command ran, never which module path, route, or exception was involved.
package analytics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	CompileStarted   = "richapi:compile_started"
	CompileCompleted = "richapi:compile_completed"
	CompileFailed    = "richapi:compile_failed"
)

var (
	PublicKey     string
	enableMetrics bool
	appVersion    string
)

// Init enables or disables metrics collection for the process lifetime.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

// SetVersion records the compiler version attached to future events.
func SetVersion(version string) {
	appVersion = version
}

func envFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".richapi", ".env"), nil
}

func createEnvFile() {
	envFile, err := envFilePath()
	if err != nil {
		return
	}
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
			return
		}
		_ = godotenv.Write(map[string]string{"uuid": uuid.New().String()}, envFile)
	}
}

// LoadEnvFile ensures the anonymous installation id exists and is loaded
// into the process environment.
func LoadEnvFile() {
	createEnvFile()
	envFile, err := envFilePath()
	if err != nil {
		return
	}
	_ = godotenv.Load(envFile)
}

// ReportEvent sends a bare named event.
func ReportEvent(event string) {
	ReportEventWithProperties(event, nil)
}

// ReportEventWithProperties sends an event with additional properties.
// Properties must never contain module paths, source text, or route names.
func ReportEventWithProperties(event string, properties map[string]interface{}) {
	if !enableMetrics || PublicKey == "" {
		return
	}

	disableGeoIP := false
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{
		Endpoint:     "https://us.i.posthog.com",
		DisableGeoIP: &disableGeoIP,
	})
	if err != nil {
		return
	}
	defer client.Close()

	props := posthog.NewProperties()
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("go_version", runtime.Version())
	if appVersion != "" {
		props.Set("richapi_version", appVersion)
	}
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
		Properties: props,
	})
}
