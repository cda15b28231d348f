package config

import (
	"encoding/json"
	"os"

	"github.com/myreport/reportcycle/internal/flagx"
	"github.com/myreport/reportcycle/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	AuthBaseURL    *string         `json:"auth_base_url"`
	CoreBaseURL    *string         `json:"core_base_url"`
	FileBaseURL    *string         `json:"file_base_url"`
	AppBaseURL     *string         `json:"app_base_url"`
	StateDir       *string         `json:"state_dir"`
	DurableStore   *string         `json:"durable_store"`
	RedisAddr      *string         `json:"redis_addr"`
	CountryISOCode *string         `json:"country_iso_code"`
	UploadDomain   *int            `json:"upload_domain"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Without either flag nothing is loaded. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.AuthBaseURL, jc.AuthBaseURL)
	set(&cfg.CoreBaseURL, jc.CoreBaseURL)
	set(&cfg.FileBaseURL, jc.FileBaseURL)
	set(&cfg.AppBaseURL, jc.AppBaseURL)
	set(&cfg.StateDir, jc.StateDir)
	set(&cfg.DurableStore, jc.DurableStore)
	set(&cfg.RedisAddr, jc.RedisAddr)
	set(&cfg.CountryISOCode, jc.CountryISOCode)
	if jc.UploadDomain != nil {
		cfg.UploadDomain = *jc.UploadDomain
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
