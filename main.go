package main

import "mandelhue/cmd"

func main() {
	cmd.Execute()
}
