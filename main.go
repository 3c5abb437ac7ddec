package main

import "fieldsheet/cmd"

func main() {
	cmd.Execute()
}
