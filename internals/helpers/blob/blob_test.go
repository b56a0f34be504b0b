package blob

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/chai2010/webp"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 1600, 400)), WebPOptions{MaxW: 800, MaxH: 800})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestConvertToWebPKeepsSmallImages(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 64, 32)), DefaultWebPOptions())
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestConvertToWebPRejectsText(t *testing.T) {
	_, err := ConvertToWebP(strings.NewReader("just some text"), DefaultWebPOptions())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/schoolku/students/", "my photo (1).PNG", ".webp")
	assert.True(t, strings.HasPrefix(key, "schoolku/students/"), key)
	assert.True(t, strings.HasSuffix(key, "-my_photo_1_.webp"), key)

	key = ObjectKey("", "../../etc/passwd", "")
	assert.False(t, strings.Contains(key, "/"), key)
	assert.True(t, strings.HasSuffix(key, "-passwd"), key)
}

func TestOSSURLs(t *testing.T) {
	s, err := NewOSS(OSSConfig{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", AccessKey: "ak", SecretKey: "sk", Bucket: "school"})
	require.NoError(t, err)

	url := s.PublicURL("a/b.webp")
	assert.Equal(t, "https://school.oss-ap-southeast-5.aliyuncs.com/a/b.webp", url)

	key, err := s.KeyFromURL(url)
	require.NoError(t, err)
	assert.Equal(t, "a/b.webp", key)

	_, err = s.KeyFromURL("https://elsewhere.example/a/b.webp")
	assert.ErrorIs(t, err, ErrNotOurs)

	s.cfg.PublicBase = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/a/b.webp", s.PublicURL("a/b.webp"))

	_, err = NewOSS(OSSConfig{Endpoint: "x"})
	assert.Error(t, err)
}

type storageCall struct {
	Method, Path, Auth, ContentType string
	Body                            []byte
}

func fakeSupabase(t *testing.T) (string, func() []storageCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []storageCall
	)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.All("/storage/v1/object/*", func(c *fiber.Ctx) error {
		mu.Lock()
		calls = append(calls, storageCall{
			Method:      utils.CopyString(c.Method()),
			Path:        utils.CopyString(c.Path()),
			Auth:        utils.CopyString(c.Get(fiber.HeaderAuthorization)),
			ContentType: utils.CopyString(c.Get(fiber.HeaderContentType)),
			Body:        append([]byte(nil), c.Body()...),
		})
		mu.Unlock()
		if strings.Contains(c.Path(), "forbidden") {
			return c.Status(fiber.StatusForbidden).SendString(`{"error":"denied"}`)
		}
		return c.JSON(fiber.Map{"Key": c.Params("*")})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String(), func() []storageCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]storageCall(nil), calls...)
	}
}

func TestSupabaseStore(t *testing.T) {
	base, calls := fakeSupabase(t)
	s, err := NewSupabase(base+"/", "service-key", "image")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := s.Put(ctx, "students/a.webp", strings.NewReader("RIFF"), 4, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, base+"/storage/v1/object/public/image/students/a.webp", url)

	require.NoError(t, s.DeleteByURL(ctx, url))
	assert.ErrorIs(t, s.DeleteByURL(ctx, "https://elsewhere/x.webp"), ErrNotOurs)

	_, err = s.Put(ctx, "forbidden/b.webp", strings.NewReader("x"), 1, "image/webp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")

	got := calls()
	require.Len(t, got, 3)
	assert.Equal(t, storageCall{
		Method:      fiber.MethodPut,
		Path:        "/storage/v1/object/image/students/a.webp",
		Auth:        "Bearer service-key",
		ContentType: "image/webp",
		Body:        []byte("RIFF"),
	}, got[0])
	assert.Equal(t, fiber.MethodDelete, got[1].Method)
	assert.Equal(t, "/storage/v1/object/image/students/a.webp", got[1].Path)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Put(context.Background(), "k", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, Disabled{}.DeleteByURL(context.Background(), "x"))
}
