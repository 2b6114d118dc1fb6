package sitf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/sitf/compress"
	"github.com/bodgit/sitf/preview"
	"github.com/bodgit/sitf/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			switch {
			case y == 0:
				m.SetNRGBA(x, y, color.NRGBA{0xff, 0, 0, 0xff})
			case x < 3:
				m.SetNRGBA(x, y, color.NRGBA{0x12, 0x34, 0x56, 0xff})
			default:
				m.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 0})
			}
		}
	}
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	require.NoError(t, ioutil.WriteFile(file, b.Bytes(), 0644))
}

func readPNG(t *testing.T, file string) image.Image {
	t.Helper()

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	return m
}

func assertSameImage(t *testing.T, want, got image.Image) {
	t.Helper()

	require.Equal(t, want.Bounds(), got.Bounds())
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			assert.Equal(t, color.NRGBAModel.Convert(want.At(x, y)), color.NRGBAModel.Convert(got.At(x, y)), "(%d, %d)", x, y)
		}
	}
}

func newConverter(t *testing.T, options ...Option) (*Converter, *bytes.Buffer) {
	t.Helper()

	b := new(bytes.Buffer)
	return New(log.New(b, "", 0), options...), b
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, testImage())

	c, logged := newConverter(t, WithStrict(true))

	require.NoError(t, c.ToSITF(in, filepath.Join(dir, "image.sitf"), "hello world"))
	b, err := ioutil.ReadFile(filepath.Join(dir, "image.sitf"))
	require.NoError(t, err)
	assert.Equal(t, "$hello world@\n1-6:1+!R\n1-3:2+#123456,4-6:2-100!0\n1-3:3+#123456,4-6:3-100!0\n1-3:4+#123456,4-6:4-100!0\n", string(b))

	require.NoError(t, c.ToPNG(filepath.Join(dir, "image.sitf"), filepath.Join(dir, "out.png")))
	assertSameImage(t, testImage(), readPNG(t, filepath.Join(dir, "out.png")))

	assert.Contains(t, logged.String(), "Converted PNG -> SITF (6x4)")
	assert.Contains(t, logged.String(), "Converted SITF -> PNG (6x4)")
}

func TestNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	c, _ := newConverter(t)

	assert.Error(t, c.ToSITF(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.sitf"), ""))
	assert.NoFileExists(t, filepath.Join(dir, "out.sitf"))

	// An empty document is valid but PNG can not store a 0x0 image.
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "empty.sitf"), []byte("$@\n"), 0644))
	assert.Error(t, c.ToPNG(filepath.Join(dir, "empty.sitf"), filepath.Join(dir, "empty.png")))
	assert.NoFileExists(t, filepath.Join(dir, "empty.png"))

	assert.Error(t, c.ToSITF(filepath.Join(dir, "in.png"), filepath.Join(dir, "missing", "out.sitf"), ""))

	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestLenientAndStrict(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.sitf")
	require.NoError(t, ioutil.WriteFile(in, []byte("$@\n1-2:1+!G,oops,3:1-!B\n"), 0644))

	c, logged := newConverter(t)
	require.NoError(t, c.ToPNG(in, filepath.Join(dir, "out.png")))
	assert.Contains(t, logged.String(), `skipped "oops"`)
	assert.Equal(t, image.Rect(0, 0, 3, 1), readPNG(t, filepath.Join(dir, "out.png")).Bounds())

	strict, _ := newConverter(t, WithStrict(true))
	assert.Error(t, strict.ToPNG(in, filepath.Join(dir, "strict.png")))
	assert.NoFileExists(t, filepath.Join(dir, "strict.png"))
}

func TestColors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")

	m := image.NewNRGBA(image.Rect(0, 0, 32, 1))
	for x := 0; x < 32; x++ {
		m.SetNRGBA(x, 0, color.NRGBA{uint8(x * 8), 0x40, 0x40, 0xff})
	}
	writePNG(t, in, m)

	c, _ := newConverter(t, WithColors(2))
	require.NoError(t, c.ToSITF(in, filepath.Join(dir, "out.sitf"), ""))

	b, err := ioutil.ReadFile(filepath.Join(dir, "out.sitf"))
	require.NoError(t, err)
	// Two colors can produce at most two runs, and so at most one comma.
	assert.LessOrEqual(t, bytes.Count(b, []byte(",")), 1)
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.sitf")
	require.NoError(t, ioutil.WriteFile(in, []byte("$@1:1+!R,2:1+!B\n"), 0644))

	c, _ := newConverter(t)

	require.NoError(t, c.Preview(in, filepath.Join(dir, "fit.png"), 100, 100, preview.Nearest))
	m := readPNG(t, filepath.Join(dir, "fit.png"))
	assert.Equal(t, image.Rect(0, 0, 100, 50), m.Bounds())
	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, color.NRGBAModel.Convert(m.At(10, 10)))
	assert.Equal(t, color.NRGBA{0, 0, 0xff, 0xff}, color.NRGBAModel.Convert(m.At(90, 10)))

	require.NoError(t, c.Preview(in, filepath.Join(dir, "scale.png"), 0, 8, preview.Bilinear))
	assert.Equal(t, image.Rect(0, 0, 16, 8), readPNG(t, filepath.Join(dir, "scale.png")).Bounds())
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0755))

	for _, file := range []string{"a.png", "b.PNG", filepath.Join("sub", "c.png"), filepath.Join(".hidden", "d.png")} {
		writePNG(t, filepath.Join(dir, file), testImage())
	}
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0644))

	c, _ := newConverter(t, WithWorkers(3))
	require.NoError(t, c.Scan(dir, "scanned"))

	for _, file := range []string{"a.sitf", "b.sitf", filepath.Join("sub", "c.sitf")} {
		assert.FileExists(t, filepath.Join(dir, file))
	}
	assert.NoFileExists(t, filepath.Join(dir, ".hidden", "d.sitf"))
	assert.NoFileExists(t, filepath.Join(dir, "notes.sitf"))

	assert.Error(t, c.Scan(filepath.Join(dir, "a.png"), ""))
}

func TestScanFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))

	c, _ := newConverter(t)
	assert.Error(t, c.Scan(dir, ""))
}

func TestLibrary(t *testing.T) {
	dir := t.TempDir()

	db, err := store.Open(filepath.Join(dir, "sitf.db"), mustCodec(t, compress.Zstd))
	require.NoError(t, err)
	defer db.Close()

	c, _ := newConverter(t, WithDB(db))

	in := filepath.Join(dir, "flag.sitf")
	text := "$flag@\n1-3:1+!R\n1-3:2+!F\n"
	require.NoError(t, ioutil.WriteFile(in, []byte(text), 0644))

	require.NoError(t, c.Import(in))

	list, err := c.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "flag", list[0].Name)
	assert.Equal(t, 3, list[0].Width)
	assert.Equal(t, 2, list[0].Height)

	require.NoError(t, c.Export("flag", filepath.Join(dir, "out.sitf")))
	b, err := ioutil.ReadFile(filepath.Join(dir, "out.sitf"))
	require.NoError(t, err)
	assert.Equal(t, text, string(b))

	require.NoError(t, c.Thumbnail("flag", filepath.Join(dir, "thumb.png")))
	assert.Equal(t, image.Rect(0, 0, 3, 2), readPNG(t, filepath.Join(dir, "thumb.png")).Bounds())

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "blank.sitf"), []byte("$nothing here@\n"), 0644))
	require.NoError(t, c.Import(filepath.Join(dir, "blank.sitf")))
	assert.Equal(t, errNoThumbnail, c.Thumbnail("blank", filepath.Join(dir, "blank.png")))
	assert.NoFileExists(t, filepath.Join(dir, "blank.png"))

	require.NoError(t, c.Delete("flag"))
	assert.Equal(t, store.ErrNotFound, c.Export("flag", filepath.Join(dir, "gone.sitf")))
	assert.NoFileExists(t, filepath.Join(dir, "gone.sitf"))
}

func TestNoLibrary(t *testing.T) {
	c, _ := newConverter(t)

	assert.Equal(t, errNoDB, c.Import("x.sitf"))
	assert.Equal(t, errNoDB, c.Export("x", "x.sitf"))
	assert.Equal(t, errNoDB, c.Delete("x"))
	assert.Equal(t, errNoDB, c.Thumbnail("x", "x.png"))
	_, err := c.List()
	assert.Equal(t, errNoDB, err)
}

func mustCodec(t *testing.T, typ compress.Type) compress.Codec {
	t.Helper()

	c, err := compress.New(typ)
	require.NoError(t, err)
	return c
}
