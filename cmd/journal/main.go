// Command journal manages the trade journal from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every journal subcommand to c.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&addCmd{}, "trades")
	c.Register(&listCmd{}, "trades")
	c.Register(&deleteCmd{}, "trades")

	c.Register(&refreshCmd{}, "prices")
	c.Register(&pricesCmd{}, "prices")

	c.Register(&analyzeCmd{}, "analytics")
	c.Register(&summaryCmd{}, "analytics")
	c.Register(&exportCmd{}, "analytics")
}
