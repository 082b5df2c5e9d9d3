package main

import "github.com/relaykit/relayctl/cmd"

func main() {
	cmd.Execute()
}
