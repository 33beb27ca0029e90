package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"
)

// ImageReadError reports a screenshot file that is missing or undecodable.
type ImageReadError struct {
	Path string
	Err  error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("reading image %s: %v", e.Path, e.Err)
}

func (e *ImageReadError) Unwrap() error { return e.Err }

// DiffResult describes the artifacts written by GenerateDiff.
type DiffResult struct {
	Width  int
	Height int
	// ResizedBase and ResizedPR are the white-padded RGB canvases the
	// oracle consumes instead of the originals.
	ResizedBase string
	ResizedPR   string
	DiffPath    string
}

// GenerateDiff pads the two screenshots onto equal white canvases, writes
// the padded copies next to the originals with a -resized suffix, and writes
// an RGBA mask at diffPath: opaque red wherever any channel differs after
// padding, fully transparent everywhere else. Images are top-left aligned,
// never scaled or centered, so a page that only grew taller diffs cleanly.
func GenerateDiff(basePath, prPath, diffPath string) (*DiffResult, error) {
	img1, err := loadRGB(basePath)
	if err != nil {
		return nil, err
	}
	img2, err := loadRGB(prPath)
	if err != nil {
		return nil, err
	}

	w := img1.Bounds().Dx()
	if img2.Bounds().Dx() > w {
		w = img2.Bounds().Dx()
	}
	h := img1.Bounds().Dy()
	if img2.Bounds().Dy() > h {
		h = img2.Bounds().Dy()
	}

	padded1 := padWhite(img1, w, h)
	padded2 := padWhite(img2, w, h)

	resizedBase := ResizedPath(basePath)
	resizedPR := ResizedPath(prPath)
	if err := writePNG(resizedBase, padded1); err != nil {
		return nil, err
	}
	if err := writePNG(resizedPR, padded2); err != nil {
		return nil, err
	}

	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o1 := padded1.PixOffset(x, y)
			o2 := padded2.PixOffset(x, y)
			// Any nonzero channel difference marks the pixel. No
			// tolerance threshold: a 1-bit change is as red as a
			// 255-bit change, which downstream prompts assume.
			if padded1.Pix[o1] != padded2.Pix[o2] ||
				padded1.Pix[o1+1] != padded2.Pix[o2+1] ||
				padded1.Pix[o1+2] != padded2.Pix[o2+2] {
				mask.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			}
		}
	}

	if err := writePNG(diffPath, mask); err != nil {
		return nil, err
	}

	return &DiffResult{
		Width:       w,
		Height:      h,
		ResizedBase: resizedBase,
		ResizedPR:   resizedPR,
		DiffPath:    diffPath,
	}, nil
}

// ResizedPath returns the path the padded copy of a screenshot is written to.
func ResizedPath(path string) string {
	if strings.HasSuffix(path, ".png") {
		return strings.TrimSuffix(path, ".png") + "-resized.png"
	}
	return path + "-resized.png"
}

func loadRGB(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageReadError{Path: path, Err: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, &ImageReadError{Path: path, Err: err}
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

func padWhite(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
