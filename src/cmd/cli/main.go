package main

import "pctracer-svc/src/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
