package main

import "github.com/mwantia/modtree/cmd/modtree/cmd"

func main() {
	cmd.Execute()
}
