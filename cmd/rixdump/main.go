// Command rixdump renders a rotating textured cube and prints the
// display lists streamed for every frame.
//
// Usage:
//
//	rixdump [-device memory] [-frames 3] [-width 320] [-height 240] [-texture tex.png] [-v]
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix"
	_ "github.com/gogpu/rix/device/memdev"
	"github.com/gogpu/rix/texture"
	"github.com/gogpu/rix/vertex"
	"github.com/gogpu/rix/vmath"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func main() {
	var (
		device  = flag.String("device", "", "device name (default: best registered)")
		frames  = flag.Int("frames", 3, "frames to render")
		width   = flag.Int("width", 320, "render width")
		height  = flag.Int("height", 240, "render height")
		texPath = flag.String("texture", "", "texture image (png, bmp or webp)")
		verbose = flag.Bool("v", false, "log renderer activity")
	)
	flag.Parse()

	if *verbose {
		rix.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	dev, err := openDevice(*device)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	r, err := rix.NewRenderer(dev)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	if err := r.SetRenderResolution(*width, *height); err != nil {
		log.Fatalf("Failed to set resolution: %v", err)
	}

	tex, err := loadTexture(*texPath)
	if err != nil {
		log.Fatalf("Failed to load texture: %v", err)
	}
	id, err := r.CreateTexture()
	if err != nil {
		log.Fatal(err)
	}
	if err := r.UpdateTexture(id, tex); err != nil {
		log.Fatalf("Failed to upload texture: %v", err)
	}

	p := vertex.New(r)
	p.SetViewport(0, 0, *width, *height)
	p.EnableCulling(true)
	_ = p.SetMatrixMode(vertex.Projection)
	p.LoadMatrix(vmath.Perspective(60, float32(*width)/float32(*height), 1, 100))
	_ = p.SetMatrixMode(vertex.ModelView)

	must(r.SetClearColor(gputypes.Color{R: 0.1, G: 0.1, B: 0.2, A: 1}))
	must(r.SetFeatures(rix.FeatureDepthTest | rix.FeatureTMU0))
	must(r.UseTexture(0, id))

	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	cube := newCube()
	for frame := range *frames {
		must(r.Clear(true, true, false))
		p.LoadIdentity()
		p.Translate(0, 0, -4)
		p.Rotate(float32(frame)*15, 1, 1, 0)
		if *texPath == "" && frame > 0 {
			scrollTexture(r, id, tex, frame)
		}
		if err := p.DrawObj(cube); err != nil {
			log.Printf("Frame %d: %v", frame, err)
		}
		if err := r.Commit(); err != nil {
			log.Printf("Frame %d: %v", frame, err)
		}
		printFrame(out, frame, r.Stats())
	}
	if err := r.Close(); err != nil {
		log.Printf("Close: %v", err)
	}

	s := p.Stats()
	log.Printf("Rendered %d frames: %d triangles assembled, %d culled, %d clipped, %d emitted",
		*frames, s.Assembled, s.Culled, s.Clipped, s.Emitted)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func openDevice(name string) (rix.Device, error) {
	if name == "" {
		return rix.DefaultDevice()
	}
	return rix.OpenDevice(name)
}

// checkerboard draws a 64x64 checkerboard shifted right by offset texels.
func checkerboard(offset int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if ((x+offset)/8+y/8)%2 == 1 {
				c = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// scrollTexture redraws the checkerboard for the given frame and hands
// the new contents to the renderer.
func scrollTexture(r *rix.Renderer, id rix.TextureID, tex *texture.Object, frame int) {
	if err := texture.Redraw(tex, checkerboard(frame*2), texture.RGB565); err != nil {
		log.Printf("Frame %d: %v", frame, err)
		return
	}
	if err := r.UpdateTexture(id, tex); err != nil {
		log.Printf("Frame %d: %v", frame, err)
		return
	}
	must(r.UseTexture(0, id))
}

// loadTexture decodes the image at path, or builds a checkerboard.
func loadTexture(path string) (*texture.Object, error) {
	if path == "" {
		return texture.FromImage(checkerboard(0), texture.RGB565)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return texture.FromImage(img, texture.RGBA4444)
}

func printFrame(w *tabwriter.Writer, frame int, s rix.Stats) {
	fmt.Fprintf(w, "frame %d\ttriangles %d\toffscreen %d\t\n", frame, s.Triangles, s.Offscreen)
	fmt.Fprintf(w, "band\tcommands\tbytes\t\n")
	for i, b := range s.Bands {
		fmt.Fprintf(w, "%d\t%d\t%d\t\n", i, b.Commands, b.Bytes)
	}
	_ = w.Flush()
}

// newCube returns a unit cube as counter-clockwise quads.
func newCube() *vertex.Arrays {
	faces := [6][4]vmath.Vec4{
		{{-1, -1, 1, 1}, {1, -1, 1, 1}, {1, 1, 1, 1}, {-1, 1, 1, 1}},
		{{1, -1, -1, 1}, {-1, -1, -1, 1}, {-1, 1, -1, 1}, {1, 1, -1, 1}},
		{{-1, -1, -1, 1}, {-1, -1, 1, 1}, {-1, 1, 1, 1}, {-1, 1, -1, 1}},
		{{1, -1, 1, 1}, {1, -1, -1, 1}, {1, 1, -1, 1}, {1, 1, 1, 1}},
		{{-1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, -1, 1}, {-1, 1, -1, 1}},
		{{-1, -1, -1, 1}, {1, -1, -1, 1}, {1, -1, 1, 1}, {-1, -1, 1, 1}},
	}
	uv := [4]vmath.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}, {0, 1, 0, 1}}

	a := &vertex.Arrays{DrawMode: vertex.Quads, GlobalColor: vmath.V4(1, 1, 1, 1)}
	for _, face := range faces {
		for i, v := range face {
			a.Positions = append(a.Positions, v)
			a.TexCoords[0] = append(a.TexCoords[0], uv[i])
		}
	}
	return a
}
