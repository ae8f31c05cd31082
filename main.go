package main

import "github.com/sergev/dsk2dc/cmd"

func main() {
	cmd.Execute()
}
