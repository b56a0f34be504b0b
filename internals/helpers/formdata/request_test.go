package formdata

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func echoFormApp() *fiber.App {
	app := fiber.New()
	app.Post("/echo", func(c *fiber.Ctx) error {
		nested, err := ParseForm(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		}
		out := make(map[string]any, len(nested))
		for k, v := range nested {
			out[k] = describe(v)
		}
		return c.JSON(out)
	})
	return app
}

// describe replaces uploads by their file names so the result is JSON friendly.
func describe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = describe(inner)
		}
		return out
	case *multipart.FileHeader:
		return "file:" + t.Filename
	default:
		return v
	}
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestParseFormMultipart(t *testing.T) {
	t.Parallel()

	payload := Encode(Flatten(Object{
		{Key: "personal", Value: Object{
			{Key: "first_name", Value: "Jane"},
			{Key: "photo", Value: File{Name: "jane.png", Type: "image/png", Data: []byte("png")}},
		}},
		{Key: "age", Value: 10},
	}), nil)
	body, contentType, err := payload.Bytes()
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/echo", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := echoFormApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, map[string]any{
		"personal": map[string]any{
			"first_name": "Jane",
			"photo":      "file:jane.png",
		},
		"age": "10",
	}, decodeBody(t, resp.Body))
}

func TestParseFormURLEncoded(t *testing.T) {
	t.Parallel()

	form := "contact.email=old%40school.id&name=Room+A&contact.email=new%40school.id"
	req := httptest.NewRequest(fiber.MethodPost, "/echo", strings.NewReader(form))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := echoFormApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, map[string]any{
		"contact": map[string]any{"email": "new@school.id"},
		"name":    "Room A",
	}, decodeBody(t, resp.Body))
}

func TestParseFormRejectsJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(fiber.MethodPost, "/echo", strings.NewReader(`{"a":1}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := echoFormApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestEntriesFromMultipartNil(t *testing.T) {
	t.Parallel()
	require.Nil(t, EntriesFromMultipart(nil))
}
