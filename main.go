package main

import "github.com/driveads/campaign-management/cmd"

func main() {
	cmd.Execute()
}
