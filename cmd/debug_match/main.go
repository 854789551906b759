// Command debug_match runs the template matcher offline against a
// saved screen dump, printing hits across a threshold sweep. Useful
// for tuning freshly cropped templates without the game running.
package main

import (
	"fmt"
	"os"

	"github.com/ConserveLee/uma-auto/internal/constants"
	"github.com/ConserveLee/uma-auto/internal/engine/screen"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Printf("usage: %s <screen.png> <template.png> [template2.png ...]\n", os.Args[0])
		os.Exit(2)
	}

	searcher := screen.NewSearcher()

	screenImg, err := searcher.LoadImage(os.Args[1])
	if err != nil {
		fmt.Printf("Failed to load screen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Screen size: %dx%d\n", screenImg.Bounds().Dx(), screenImg.Bounds().Dy())

	for _, tplPath := range os.Args[2:] {
		tpl, err := searcher.LoadImage(tplPath)
		if err != nil {
			fmt.Printf("Failed to load template %s: %v\n", tplPath, err)
			continue
		}

		fmt.Printf("\n=== Testing %s (%dx%d) ===\n", tplPath, tpl.Bounds().Dx(), tpl.Bounds().Dy())

		for _, threshold := range []float64{0.70, constants.DefaultConfidence, constants.HighConfidence} {
			matches := searcher.FindAllTemplates(screenImg, tpl, threshold)
			fmt.Printf("  threshold %.2f: %d matches", threshold, len(matches))
			for _, m := range matches {
				fmt.Printf(" %v", m.Center())
			}
			fmt.Println()
		}

		if box, ok := searcher.FindTemplate(screenImg, tpl, constants.DefaultConfidence); ok {
			fmt.Printf("  best match at default confidence: %s, center %v\n", box, box.Center())
		} else {
			fmt.Println("  no match at default confidence")
		}
	}
}
