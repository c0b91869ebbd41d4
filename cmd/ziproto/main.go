package main

import "ziproto/cmd/ziproto/cmd"

func main() {
	cmd.Execute()
}
