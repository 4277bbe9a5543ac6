package main

import "github.com/kda153882-hash/makuake-research/cmd"

func main() {
	cmd.Execute()
}
