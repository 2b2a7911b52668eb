package main

import "transcript-fixture/internal/cli"

func main() {
	cli.Execute()
}
