package main

import "github.com/codectl/codectl/internal/cli"

func main() {
	cli.Execute()
}
