package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/formdata"
)

func newTestApp() *fiber.App {
	ctl := NewRoomController(nil, nil)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocSchoolID, uuid.NewString())
		return c.Next()
	})
	app.Post("/rooms", ctl.Create)
	app.Post("/rooms/validate", ctl.ValidateStep)
	return app
}

func send(t *testing.T, app *fiber.App, target, contentType string, body []byte) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func multipartBody(t *testing.T, tree any) ([]byte, string) {
	t.Helper()
	body, ct, err := formdata.Encode(formdata.Flatten(tree), nil).Bytes()
	require.NoError(t, err)
	return body, ct
}

func TestValidateStepMultipart(t *testing.T) {
	app := newTestApp()
	tree := formdata.Object{}.
		Set("room", formdata.Object{}.Set("name", "Lab 1").Set("capacity", 30)).
		Set("location", formdata.Object{}.Set("floor", "abc"))

	body, ct := multipartBody(t, tree)
	status, resp := send(t, app, "/rooms/validate?step=room", ct, body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, resp["errors"], "location.floor")

	tree = formdata.Object{}.
		Set("room", formdata.Object{}.Set("name", "Lab 1").Set("capacity", 30)).
		Set("location", formdata.Object{}.Set("floor", 2))
	body, ct = multipartBody(t, tree)
	status, resp = send(t, app, "/rooms/validate?step=room", ct, body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, resp["data"].(map[string]any)["valid"])
}

func TestValidateStepReportsSectionErrors(t *testing.T) {
	app := newTestApp()
	tree := formdata.Object{}.
		Set("room", formdata.Object{}.Set("name", "X").Set("capacity", -1)).
		Set("location", formdata.Object{}.Set("building", "Main"))
	body, ct := multipartBody(t, tree)

	status, resp := send(t, app, "/rooms/validate?step=room", ct, body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := resp["errors"].(map[string]any)
	assert.Contains(t, errs, "room.name")
	assert.Contains(t, errs, "room.capacity")

	status, _ = send(t, app, "/rooms/validate?step=location", ct, body)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, "/rooms/validate?step=wifi", ct, body)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestValidateStepJSON(t *testing.T) {
	status, _ := send(t, newTestApp(), "/rooms/validate?step=room", fiber.MIMEApplicationJSON,
		[]byte(`{"room":{"name":"Hall","is_virtual":true},"features":["projector"]}`))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCreateRejectsBadBodies(t *testing.T) {
	app := newTestApp()

	status, _ := send(t, app, "/rooms", fiber.MIMETextPlain, []byte("name=x"))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, status)

	status, _ = send(t, app, "/rooms", fiber.MIMEApplicationJSON, []byte(`{"room":`))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, resp := send(t, app, "/rooms", fiber.MIMEApplicationForm,
		[]byte(strings.Join([]string{"room.name=A", "location.building=Main"}, "&")))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, resp["errors"], "room.name")
}
