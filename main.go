package main

import "github.com/ACCESS-NRI/access-profiling/internal/cmd"

func main() {
	cmd.Execute()
}
