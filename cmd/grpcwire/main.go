// grpcwire CLI - serves proto contracts over the gRPC wire protocol
package main

import (
	"github.com/grpcwire/grpcwire/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
