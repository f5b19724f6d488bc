/*
Package options contains CLI options and flags shared between commands.
*/
package options

import (
	"github.com/Anfauglith/libiop/pkg/chaincfg"
	"github.com/Anfauglith/libiop/pkg/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Network is the set of flags for choosing the network to operate on.
var Network = []cli.Flag{
	&cli.BoolFlag{
		Name:    "testnet",
		Aliases: []string{"t"},
		Usage:   "Use the test network",
	},
	&cli.BoolFlag{
		Name:    "regtest",
		Aliases: []string{"r"},
		Usage:   "Use the regression test network",
	},
}

// Debug is a flag turning the log level to debug.
var Debug = &cli.BoolFlag{
	Name:    "debug",
	Aliases: []string{"d"},
	Usage:   "Enable debug logging (precedence over the config setting)",
}

// ConfigFile is a flag pointing at an optional YAML configuration file.
var ConfigFile = &cli.StringFlag{
	Name:  "config-file",
	Usage: "Path to the YAML tool configuration",
}

// GetNetwork picks the chain parameters selected by the network flags.
func GetNetwork(ctx *cli.Context) *chaincfg.Params {
	switch {
	case ctx.Bool("regtest"):
		return &chaincfg.RegtestParams
	case ctx.Bool("testnet"):
		return &chaincfg.TestNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// GetConfig loads the optional tool configuration named by the
// config-file flag.
func GetConfig(ctx *cli.Context) (config.ApplicationConfiguration, error) {
	if path := ctx.String("config-file"); path != "" {
		return config.Load(path)
	}
	return config.ApplicationConfiguration{}, nil
}

// HandleLoggingParams reads the logging parameters and builds the
// logger used throughout the tool.
func HandleLoggingParams(ctx *cli.Context, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	var (
		level    = zapcore.InfoLevel
		encoding = "console"
		err      error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.LogEncoding) > 0 {
		encoding = cfg.LogEncoding
	}
	if ctx != nil && ctx.Bool("debug") {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = encoding
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	if cfg.LogPath != "" {
		cc.OutputPaths = []string{cfg.LogPath}
	}

	return cc.Build()
}
