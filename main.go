package main

import "github.com/notargets/gord/cmd"

func main() {
	cmd.Execute()
}
