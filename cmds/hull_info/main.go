package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-cut/meshcut"
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: hull_info [flags] <input.bin>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

	log.Println("Loading hull...")
	hull, err := meshcut.Load(inputPath, meshcut.ReadHull)
	essentials.Must(err)

	min, max := hull.SubMesh().Bounds()
	fmt.Println("Attributes:", hull.Attributes)
	fmt.Println("Number of triangles:", hull.Len())
	fmt.Println("Surface area:", hull.Area())
	fmt.Println("Bounds:", min, max)
}
