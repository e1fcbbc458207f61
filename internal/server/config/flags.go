package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-k", "-r", "-w", "-n", "-b", "-l"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-k bool     Secure session cookie (use -k=false to disable)
//	-r string   redis address ("" for embedded)
//	-w string   redis password
//	-n int      redis database number
//	-b int      bcrypt cost
//	-l string   log backend (slog|zap)
//
// Arguments are filtered with flagx.FilterArgs first, so flags that belong
// to the JSON loader do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "secure session cookie")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address, empty for embedded")
	fs.StringVar(&config.RedisPassword, "w", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
