package main

import "wintertree/cmd/wintertree-cli/cmd"

func main() {
	cmd.Execute()
}
