package main

import "github.com/asimihsan/code-digest/internal/cli"

func main() {
	cli.Execute()
}
