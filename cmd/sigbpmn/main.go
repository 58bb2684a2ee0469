package main

import "github.com/vine-io/sigbpmn/cmd/sigbpmn/commands"

func main() {
	commands.Execute()
}
