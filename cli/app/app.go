package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Anfauglith/libiop/cli/scan"
	"github.com/Anfauglith/libiop/pkg/config"
	"github.com/urfave/cli/v2"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "iop-spv\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates an iop-spv instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "iop-spv"
	ctl.Version = config.Version
	ctl.Usage = "IoP SPV header scanner"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, scan.NewCommands()...)
	return ctl
}
