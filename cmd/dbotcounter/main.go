package main

import "dbotcounter/internal/cli"

func main() {
	cli.Execute()
}
