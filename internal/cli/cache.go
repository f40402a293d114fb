package cli

import (
	"fmt"

	"github.com/adubois/patrontheque/internal/gateway"
)

func (a *App) clearCache() {
	a.gateway.Commands() <- gateway.CmdClearCache
	fmt.Println("Cache clear requested.")
}

func (a *App) activate() {
	a.gateway.Commands() <- gateway.CmdSkipWaiting
	fmt.Println("Activation requested; stale cache buckets will be dropped.")
}
