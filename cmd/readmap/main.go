// Command readmap maps sequencing reads against a reference on a fixed pool
// of worker threads.
package main

import (
	"readmap/internal/app"
	"readmap/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
