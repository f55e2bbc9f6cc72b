package main

import "github.com/rustyeddy/momentum/internal/cli"

func main() {
	cli.Execute()
}
