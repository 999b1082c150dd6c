package main

import "primeburn/cmd"

func main() {
	cmd.Execute()
}
