package main

import "github.com/oshokin/building-controller/cmd/building-controller/cmd"

func main() {
	cmd.Execute()
}
