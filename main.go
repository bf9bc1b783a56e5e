package main

import "github.com/itsmostafa/mdtree/cmd"

func main() {
	cmd.Execute()
}
