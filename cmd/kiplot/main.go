package main

import "github.com/OpenTraceLab/kiplot/cmd/kiplot/cmd"

func main() {
	cmd.Execute()
}
