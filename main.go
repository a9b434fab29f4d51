package main

import "github.com/flatgrass/retouch/cmd"

func main() {
	cmd.Execute()
}
