package config

import (
	"encoding/json"
	"os"

	"github.com/myreport/reportcycle/internal/flagx"
	"github.com/myreport/reportcycle/internal/timex"
)

// JsonConfig is the JSON shape of Config. Durations accept both "15m" and
// integer nanoseconds. Absent keys leave the corresponding Config field
// untouched.
type JsonConfig struct {
	ListenAddr                  *string         `json:"listen_addr"`
	PublicBaseURL               *string         `json:"public_base_url"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	GrantValidityDuration       *timex.Duration `json:"grant_validity_duration"`
	BlobStore                   *string         `json:"blob_store"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c or -config into config. Without
// either flag nothing is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}
	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	for dst, v := range map[*string]*string{
		&config.ListenAddr:     c.ListenAddr,
		&config.PublicBaseURL:  c.PublicBaseURL,
		&config.SecretKey:      c.SecretKey,
		&config.BlobStore:      c.BlobStore,
		&config.S3RootUser:     c.S3RootUser,
		&config.S3RootPassword: c.S3RootPassword,
		&config.S3Bucket:       c.S3Bucket,
		&config.S3Region:       c.S3Region,
		&config.S3BaseEndpoint: c.S3BaseEndpoint,
	} {
		if v != nil {
			*dst = *v
		}
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.GrantValidityDuration != nil {
		config.GrantValidityDuration = c.GrantValidityDuration.Duration
	}
}
