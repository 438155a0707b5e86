package main

import "github.com/msomdec/blog-dashboard/internal/cli"

func main() {
	cli.Execute()
}
