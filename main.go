package main

import "github.com/julienpequegnot/bannergen/cmd"

func main() {
	cmd.Execute()
}
