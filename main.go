package main

import "github.com/CosmoTheDev/bridgectl/cmd"

func main() {
	cmd.Execute()
}
