// Command coaster runs roller coaster simulations without graphics.
//
//	coaster [-config file] simulate [-laps n] [-steps n] [-png file]
//	coaster [-config file] profile [-run id] [-png file]
//	coaster [-config file] generate [-out file] [-mesh file]
//
// simulate rides the configured track, records telemetry and charts the
// speed profile. profile lists recorded runs or charts one of them.
// generate writes the demo track as a curve file, together with its rails
// and supports as a Wavefront OBJ mesh.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/coaster/config"
	"github.com/rs/zerolog"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: coaster [-config file] simulate|profile|generate [flags]\n")
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", "", "configuration file (JSON, YAML or TOML)")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	s, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := newLogger(s.LogLevel)

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "simulate":
		err = simulate(s, log, args)
	case "profile":
		err = profile(s, log, args)
	case "generate":
		err = generate(s, log, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("failed")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
