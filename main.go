package main

import "github.com/fakeyudi/earned/cmd"

func main() {
	cmd.Execute()
}
