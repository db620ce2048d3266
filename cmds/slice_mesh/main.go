package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/mesh-cut/meshcut"
	"github.com/unixpickle/model3d/model3d"
)

func main() {
	var normal string
	var offset float64
	var epsilon float64
	var concurrency int
	var sequential bool
	var addCap bool
	var pointsPath string
	var verbose bool
	flag.StringVar(&normal, "normal", "0,0,1", "plane normal as x,y,z")
	flag.Float64Var(&offset, "offset", 0, "plane offset along the normal")
	flag.Float64Var(&epsilon, "epsilon", meshcut.DefaultEpsilon, "on-plane tolerance")
	flag.IntVar(&concurrency, "concurrency", 0, "maximum Goroutines (0 for GOMAXPROCS)")
	flag.BoolVar(&sequential, "sequential", false, "slice on a single Goroutine")
	flag.BoolVar(&addCap, "cap", false, "close both hulls with a cap")
	flag.StringVar(&pointsPath, "points", "", "optional path to save intersection points")
	flag.BoolVar(&verbose, "verbose", false, "log pipeline details")
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: slice_mesh [flags] <input.stl> <upper.stl|.bin> <lower.stl|.bin>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath, upperPath, lowerPath := args[0], args[1], args[2]

	if verbose {
		meshcut.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	n, err := parseCoord(normal)
	essentials.Must(err)
	if n.Norm() == 0 {
		essentials.Die("plane normal must be non-zero")
	}
	plane := meshcut.NewPlane(n, offset)

	log.Println("Loading mesh...")
	tris, err := meshcut.Load(inputPath, model3d.ReadSTL)
	essentials.Must(err)
	mesh := meshcut.NewSubMeshModel3D(model3d.NewMeshTriangles(tris))
	log.Println("Loaded", mesh.NumTriangles(), "triangles")

	log.Println("Slicing mesh...")
	slicer := &meshcut.Slicer{Epsilon: epsilon}
	if sequential {
		slicer.Backend = meshcut.SequentialBackend{}
	} else {
		slicer.Backend = &meshcut.ParallelBackend{Concurrency: concurrency}
	}
	res, err := slicer.Slice(mesh, plane)
	essentials.Must(err)
	log.Printf("Split %d triangles on %s backend: %d upper, %d lower",
		res.NumIntersecting, res.Backend, res.Upper.Len(), res.Lower.Len())

	upper, lower := res.Upper, res.Lower
	if addCap && res.Intersected {
		log.Println("Building cap...")
		c := meshcut.BuildCap(res.Points, plane, 0)
		log.Println("Cap has", len(c.Outline), "outline points and area", c.Area())
		upper = upper.WithCap(c.Upper)
		lower = lower.WithCap(c.Lower)
	}

	log.Println("Saving hulls...")
	essentials.Must(saveHull(upperPath, upper))
	essentials.Must(saveHull(lowerPath, lower))

	if pointsPath != "" {
		log.Println("Saving points...")
		essentials.Must(meshcut.Save(pointsPath, res.Points, meshcut.WritePoints))
	}
}

func parseCoord(s string) (model3d.Coord3D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return model3d.Coord3D{}, errors.Errorf("parse coordinate %q: expected 3 components", s)
	}
	var values [3]float64
	for i, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return model3d.Coord3D{}, errors.Wrapf(err, "parse coordinate %q", s)
		}
		values[i] = x
	}
	return model3d.NewCoord3DArray(values), nil
}

// saveHull writes a binary hull for .bin paths, and an STL file otherwise.
func saveHull(path string, h *meshcut.Hull) error {
	if filepath.Ext(path) == ".bin" {
		return meshcut.Save(path, h, meshcut.WriteHull)
	}
	return h.Mesh().SaveGroupedSTL(path)
}
