package main

import "browsetree/cmd/browsetree-cli/cmd"

func main() {
	cmd.Execute()
}
