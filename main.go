package main

import "github.com/jwalters/qslpress/cmd"

func main() {
	cmd.Execute()
}
