package main

import "github.com/autowerk/garage-management/cmd"

func main() {
	cmd.Execute()
}
