package main

import "github.com/goplus/extdeps/cmd/extdeps/internal"

func main() {
	internal.Execute()
}
