// landtool is a CLI utility for heightmaps and landscape archives.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/landscape/internal/config"
	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "convert":
		cmdConvert(args)
	case "export":
		cmdExport(args)
	case "generate", "gen":
		cmdGenerate(args)
	case "archive":
		cmdArchive(args)
	case "frame":
		cmdFrame(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`landtool - landscape heightmap utility

Usage:
  landtool <command> [options]

Commands:
  info <file>                           Show heightmap or archive information
  convert <image> <out.heightmap>       Convert a grayscale PNG/TIFF/BMP to a heightmap
  export <file.heightmap> <out.png>     Write a heightmap as a 16-bit PNG
  generate <size> <seed> <out.heightmap> Generate a noise heightmap
  archive <file.heightmap> <out.yaml>   Write a landscape archive for a heightmap
  frame <file> [flags]                  Select and stitch one frame headlessly

Frame flags:
  -camera x,y,z     Camera position (default: above the map center)
  -target x,y,z     Look-at point; enables frustum culling
  -fov f            Vertical field of view in degrees (default 70)
  -quality q        low, medium or high

Examples:
  landtool info island.heightmap
  landtool convert island.png island.heightmap
  landtool generate 1025 42 noise.heightmap
  landtool frame island.heightmap -camera 0,-600,300 -target 0,0,0 -fov 40`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadLandscape builds a landscape from a heightmap, image or archive on a
// recording device.
func loadLandscape(path string, opts landscape.Options, extent [3]float32) (*landscape.Landscape, *landscape.RecordingDevice, error) {
	dev := landscape.NewRecordingDevice()
	l := landscape.New(dev, opts)

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return l, dev, l.LoadArchive(path)
	}

	hm, err := loadHeightmap(path)
	if err != nil {
		return nil, nil, err
	}
	box := config.LandscapeConfig{Extent: extent}.BoundingBox()
	return l, dev, l.BuildFromHeightmap(hm, box)
}

func loadHeightmap(path string) (*heightmap.Heightmap, error) {
	if heightmap.IsImagePath(path) {
		return heightmap.LoadImage(path)
	}
	return heightmap.Load(path)
}

func defaultExtent() [3]float32 {
	return config.Default().Landscape.Extent
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: landtool info <file>")
	}

	l, _, err := loadLandscape(args[0], landscape.DefaultOptions(), defaultExtent())
	if err != nil {
		fail("Error: %v", err)
	}
	defer l.Release()

	hm := l.Heightmap()
	lo, hi := hm.Range()
	opts := l.Options()
	box := l.BoundingBox()
	root, _ := l.PatchInfo(0, 0, 0)

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Size:       %dx%d\n", hm.Size, hm.Size)
	fmt.Printf("Heights:    %d .. %d\n", lo, hi)
	fmt.Printf("Bounds:     (%.1f, %.1f, %.1f) - (%.1f, %.1f, %.1f)\n",
		box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	fmt.Printf("Patch:      %d quads\n", opts.PatchQuadCount)
	fmt.Printf("Levels:     %d\n", l.LevelCount())
	fmt.Printf("Tiles:      %d (%d quads wide)\n", len(l.RDOQuads()), opts.RenderQuadWidth-1)
	fmt.Printf("Quality:    %s\n", opts.Quality)
	fmt.Printf("Root error: %.3f\n", root.MaxError)
}

func cmdConvert(args []string) {
	if len(args) < 2 {
		fail("Usage: landtool convert <image> <out.heightmap>")
	}

	hm, err := heightmap.LoadImage(args[0])
	if err != nil {
		fail("Error: %v", err)
	}
	if err := hm.Save(args[1]); err != nil {
		fail("Error writing %s: %v", args[1], err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", args[1], hm.Size, hm.Size)
}

func cmdExport(args []string) {
	if len(args) < 2 {
		fail("Usage: landtool export <file.heightmap> <out.png>")
	}

	hm, err := heightmap.Load(args[0])
	if err != nil {
		fail("Error: %v", err)
	}

	f, err := os.Create(args[1])
	if err != nil {
		fail("Error: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, hm.Image()); err != nil {
		fail("Error encoding PNG: %v", err)
	}
	fmt.Printf("Wrote %s\n", args[1])
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	octaves := fs.Int("octaves", 6, "Number of noise octaves")
	fs.Parse(args)

	if fs.NArg() < 3 {
		fail("Usage: landtool generate [-octaves n] <size> <seed> <out.heightmap>")
	}

	size, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fail("Invalid size: %s", fs.Arg(0))
	}
	seed, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		fail("Invalid seed: %s", fs.Arg(1))
	}

	hm, err := heightmap.Generate(size, seed, *octaves)
	if err != nil {
		fail("Error: %v", err)
	}
	if err := hm.Save(fs.Arg(2)); err != nil {
		fail("Error writing %s: %v", fs.Arg(2), err)
	}
	fmt.Printf("Wrote %s (%dx%d, seed %d)\n", fs.Arg(2), size, size, seed)
}

func cmdArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	extent := fs.String("extent", "", "World size as w,h,z")
	quality := fs.String("quality", "medium", "Quality tier")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: landtool archive [-extent w,h,z] [-quality q] <file.heightmap> <out.yaml>")
	}

	ext := defaultExtent()
	if *extent != "" {
		v, err := parseVec3(*extent)
		if err != nil {
			fail("Invalid extent: %v", err)
		}
		ext = [3]float32{v.X, v.Y, v.Z}
	}
	opts := landscape.DefaultOptions()
	q, err := landscape.ParseQuality(*quality)
	if err != nil {
		fail("Error: %v", err)
	}
	opts.Quality = q

	// the archive references the heightmap file, so it must be a .heightmap
	l := landscape.New(landscape.NewRecordingDevice(), opts)
	l.SetBoundingBox(config.LandscapeConfig{Extent: ext}.BoundingBox())
	if err := l.LoadHeightmapFile(fs.Arg(0)); err != nil {
		fail("Error: %v", err)
	}
	defer l.Release()

	if err := l.SaveArchive(fs.Arg(1)); err != nil {
		fail("Error writing %s: %v", fs.Arg(1), err)
	}
	fmt.Printf("Wrote %s\n", fs.Arg(1))
}

func cmdFrame(args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fail("Usage: landtool frame <file> [-camera x,y,z] [-target x,y,z] [-fov f] [-quality q]")
	}
	path := args[0]

	fs := flag.NewFlagSet("frame", flag.ExitOnError)
	camPos := fs.String("camera", "", "Camera position x,y,z")
	target := fs.String("target", "", "Look-at point x,y,z")
	fov := fs.Float64("fov", 70, "Vertical field of view in degrees")
	quality := fs.String("quality", "medium", "Quality tier")
	verbose := fs.Bool("v", false, "List every selected patch")
	fs.Parse(args[1:])

	opts := landscape.DefaultOptions()
	q, err := landscape.ParseQuality(*quality)
	if err != nil {
		fail("Error: %v", err)
	}
	opts.Quality = q

	l, dev, err := loadLandscape(path, opts, defaultExtent())
	if err != nil {
		fail("Error: %v", err)
	}
	defer l.Release()

	box := l.BoundingBox()
	cam := &fixedCamera{
		pos: math.Vec3{
			X: (box.Min.X + box.Max.X) / 2,
			Y: (box.Min.Y + box.Max.Y) / 2,
			Z: box.Max.Z + (box.Max.X - box.Min.X),
		},
		fov: float32(*fov),
	}
	if *camPos != "" {
		if cam.pos, err = parseVec3(*camPos); err != nil {
			fail("Invalid camera: %v", err)
		}
	}
	if *target != "" {
		t, err := parseVec3(*target)
		if err != nil {
			fail("Invalid target: %v", err)
		}
		cam.lookAt(t)
	}

	stats, err := l.Draw(cam)
	if err != nil {
		fail("Error: %v", err)
	}

	th := l.ActiveThresholds()
	fmt.Printf("Camera:     (%.1f, %.1f, %.1f) fov %.1f\n", cam.pos.X, cam.pos.Y, cam.pos.Z, cam.fov)
	fmt.Printf("Thresholds: solid %.4f rad, geometry %.5f rad, height %.2f\n",
		th.SolidAngle, th.GeometryAngle, th.AbsHeight)
	fmt.Printf("Patches:    %d (clipped nodes %d)\n", stats.Patches, stats.Clipped)
	fmt.Printf("Draw calls: %d\n", stats.DrawCalls)
	fmt.Printf("Indices:    %d (%d triangles, recorded %d)\n", stats.Indices, stats.Triangles(), dev.IndexCount())

	if *verbose {
		fmt.Println()
		fmt.Println("Level  X     Y     Size  Step  Tile")
		for _, p := range l.Patches() {
			fmt.Printf("%-6d %-5d %-5d %-5d %-5d %d\n", p.Level, p.X, p.Y, p.Size, p.Step, p.RDOQuad)
		}
	}
}

func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
