package main

import "github.com/agrohub-unirv/edital-hub/cmd"

func main() {
	cmd.Execute()
}
