package main

import "inv/cmd"

func main() {
	cmd.Execute()
}
