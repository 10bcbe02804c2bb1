package main

import "ragbench/cmd"

func main() {
	cmd.Execute()
}
