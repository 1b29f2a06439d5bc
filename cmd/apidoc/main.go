package main

import "apidoc/internal/cli"

func main() {
	cli.Execute()
}
