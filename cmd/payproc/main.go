// Command payproc is the entrypoint for the sharded streaming payments
// processor. It delegates entirely to internal/cli, following the
// teacher's cmd/xrpld/main.go shape of a minimal main that just calls
// cli.Execute().
package main

import "github.com/LeJamon/goPayproc/internal/cli"

func main() {
	cli.Execute()
}
