package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (e.g., ":8099")
//	-k string   API key clients must send
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-l string   log level
//
// Only the flags listed above are parsed; everything else in args is
// filtered out first with flagx.FilterArgs.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("identity", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to listen on")
	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidity.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidity = time.Duration(*tokenValidity) * time.Minute
}
