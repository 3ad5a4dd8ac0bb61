// SPDX-License-Identifier: EPL-2.0

// Command audshout detects sustained shouting in recorded audio.
//
// Usage:
//
//	audshout detect [flags] FILES...
//	audshout serve [--config path/to/config.yaml]
//	audshout version
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ik5/audshout/internal/cli"
)

var version = "dev"

const description = "Sustained shout detection for recorded audio"

// CLI is the command grammar.
type CLI struct {
	Detect  DetectCmd  `cmd:"" help:"Detect shouting in audio files."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP analysis API."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// env carries the output streams into commands.
type env struct {
	stdout io.Writer
	stderr io.Writer
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run(e *env) error {
	cli.PrintVersion(e.stdout, version)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var c CLI
	exit := -1

	parser, err := kong.New(&c,
		kong.Name("audshout"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exit = code }),
		kong.Help(cli.StyledHelpPrinter(description)),
	)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 2
	}

	ctx, err := parser.Parse(args)
	if exit >= 0 {
		return exit
	}
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 2
	}

	if err := ctx.Run(&env{stdout: stdout, stderr: stderr}); err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	return 0
}
