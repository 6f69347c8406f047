package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/resourcescan/cmd/resourcescan/commands"
	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
	"git.home.luguber.info/inful/resourcescan/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}

	parser := kong.Parse(cli,
		kong.Name("resourcescan"),
		kong.Description("Extract, resolve and classify the resources an HTML document references."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)

	global.Logger = slog.Default()
	global.Stdout = os.Stdout

	if err := parser.Run(); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
