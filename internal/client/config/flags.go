package config

import (
	"flag"
	"os"

	"github.com/myreport/reportcycle/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-auth string  auth service base URL
//	-core string  core service base URL
//	-file string  file service base URL
//	-app string   web application base URL
//	-s string     state directory
//	-r string     redis address; switches the durable tier to redis
//
// Only these flags are read from os.Args, so -c/-config can sit alongside.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-auth", "-core", "-file", "-app", "-s", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthBaseURL, "auth", cfg.AuthBaseURL, "auth service base URL")
	fs.StringVar(&cfg.CoreBaseURL, "core", cfg.CoreBaseURL, "core service base URL")
	fs.StringVar(&cfg.FileBaseURL, "file", cfg.FileBaseURL, "file service base URL")
	fs.StringVar(&cfg.AppBaseURL, "app", cfg.AppBaseURL, "web application base URL")
	fs.StringVar(&cfg.StateDir, "s", cfg.StateDir, "state directory")
	redisAddr := fs.String("r", "", "redis address for the remembered session")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *redisAddr != "" {
		cfg.RedisAddr = *redisAddr
		cfg.DurableStore = DurableRedis
	}
}
