package main

import "github.com/qingnian/blog-api/cmd"

func main() {
	cmd.Execute()
}
