package main

import "github.com/vietdv277/asgroll/cmd"

func main() {
	cmd.Execute()
}
