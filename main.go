package main

import "ShellFM/cmd"

func main() {
	cmd.Execute()
}
