package main

import "runnersync/internal/cmd"

func main() {
	cmd.Execute()
}
