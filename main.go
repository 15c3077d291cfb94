package main

import "github.com/ooyeku/csvstream/cmd"

func main() {
	cmd.Execute()
}
