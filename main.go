package main

import "github.com/notargets/gocfd-heat/cmd"

func main() {
	cmd.Execute()
}
