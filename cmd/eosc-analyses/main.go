package main

import (
	"github.com/cyfronet-fid/eosc-analyses/protocol"
)

func main() {
	protocol.Execute()
}
