package main

import "github.com/DukeRupert/kyrisk/internal/cli"

func main() {
	cli.Execute()
}
