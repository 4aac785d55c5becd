package main

import "github.com/Manu343726/cinta/cmd"

func main() {
	cmd.Execute()
}
