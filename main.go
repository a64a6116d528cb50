package main

import "github.com/probelabs/driftscan/cmd"

func main() {
	cmd.Execute()
}
