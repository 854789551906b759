// Command checkassets verifies the asset tree: it creates any missing
// directories and reports every required template that is absent.
// Exit code 1 means the bots would run degraded.
package main

import (
	"fmt"
	"os"

	"github.com/ConserveLee/uma-auto/internal/assets"
)

func main() {
	if err := assets.EnsureAssetDirs(); err != nil {
		fmt.Printf("Failed to create asset directories: %v\n", err)
		os.Exit(1)
	}

	missing := 0
	ok := assets.CheckRequiredButtons(func(format string, args ...interface{}) {
		missing++
		fmt.Printf(format+"\n", args...)
	})
	if !ok {
		fmt.Printf("%d required template(s) missing under %s\n", missing, assets.Dir)
		os.Exit(1)
	}
	fmt.Println("All required templates present.")
}
