package main

import "github.com/sadopc/mithaq/internal/cli"

func main() {
	cli.Execute()
}
