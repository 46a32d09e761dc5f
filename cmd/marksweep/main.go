package main

import "github.com/marksweep/marksweep/internal/cli"

func main() {
	cli.Execute()
}
