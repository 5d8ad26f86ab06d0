package main

import "github.com/quill-blog/server/cmd"

func main() {
	cmd.Execute()
}
