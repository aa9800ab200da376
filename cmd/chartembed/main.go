package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-chartembed/cmd/chartembed/commands"
	"github.com/goliatone/go-chartembed/internal/config"
)

const (
	cmdName = "chartembed"

	shortDesc = "Render chart documents into embeddable HTML."
	longDesc  = `chartembed turns declarative figure documents (YAML or JSON) into HTML.

Each figure is converted to its chart library export and injected into a
container element, so pages, fragments and JSON component tags can be
produced from the same document, either on the command line or over HTTP.
`
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := commands.NewRootCmd(cfg, cmdName, shortDesc, longDesc)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
