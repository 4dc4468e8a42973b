package main

import "harmonyscope/cmd/harmonyscope-cli/cmd"

func main() {
	cmd.Execute()
}
