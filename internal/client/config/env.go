package config

import "os"

const (
	EnvAuthBaseURL = "REPORTCYCLE_AUTH_BASE_URL"
	EnvCoreBaseURL = "REPORTCYCLE_CORE_BASE_URL"
	EnvFileBaseURL = "REPORTCYCLE_FILE_BASE_URL"
	EnvAppBaseURL  = "REPORTCYCLE_APP_BASE_URL"
)

// parseEnv overlays the service locations from the environment. Empty
// variables are ignored.
func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		EnvAuthBaseURL: &cfg.AuthBaseURL,
		EnvCoreBaseURL: &cfg.CoreBaseURL,
		EnvFileBaseURL: &cfg.FileBaseURL,
		EnvAppBaseURL:  &cfg.AppBaseURL,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
}
