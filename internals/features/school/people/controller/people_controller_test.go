package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/blob"
	"schoolku_backend/internals/helpers/formdata"
)

type memStore struct {
	mu      sync.Mutex
	keys    []string
	deleted []string
}

func (s *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

func (s *memStore) DeleteByURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

func pngFile(t *testing.T) formdata.File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return formdata.File{Name: "me.png", Type: "image/png", Data: buf.Bytes()}
}

func fileHeader(t *testing.T, f formdata.File) *multipart.FileHeader {
	t.Helper()
	body, ct, err := formdata.Encode([]formdata.Entry{{Path: "photo", Value: f}}, nil).Bytes()
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	require.Len(t, form.File["photo"], 1)
	return form.File["photo"][0]
}

func newTestApp(photos Photos) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocSchoolID, uuid.NewString())
		return c.Next()
	})
	students := NewStudentController(nil, nil, photos)
	teachers := NewTeacherController(nil, nil, photos)
	parents := NewParentController(nil, nil, photos)
	app.Post("/students", students.Create)
	app.Post("/students/validate", students.ValidateStep)
	app.Post("/teachers/validate", teachers.ValidateStep)
	app.Post("/parents", parents.Create)
	app.Post("/parents/validate", parents.ValidateStep)
	return app
}

func submit(t *testing.T, app *fiber.App, target string, tree formdata.Object) (int, map[string]any) {
	t.Helper()
	body, ct, err := formdata.Encode(formdata.Flatten(tree), nil).Bytes()
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func studentTree(photo any) formdata.Object {
	return formdata.Object{}.
		Set("personal", formdata.Object{}.
			Set("first_name", "Aisha").
			Set("last_name", "Rahman").
			Set("gender", "female").
			Set("birth_date", "2012-04-01").
			Set("photo", photo)).
		Set("contact", formdata.Object{}.
			Set("email", "aisha@example.com").
			Set("phone", nil)).
		Set("academic", formdata.Object{}.
			Set("student_number", "s-001").
			Set("grade_level", 6))
}

func TestStudentValidateSteps(t *testing.T) {
	app := newTestApp(Photos{})

	for _, step := range []string{"personal", "contact", "academic"} {
		status, body := submit(t, app, "/students/validate?step="+step, studentTree(nil))
		assert.Equal(t, fiber.StatusOK, status, step)
		assert.Equal(t, step, body["data"].(map[string]any)["step"])
	}

	tree := studentTree(nil)
	personal, _ := tree.Get("personal")
	personal.(formdata.Object).Set("gender", "robot")
	status, body := submit(t, app, "/students/validate?step=personal", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "personal.gender")

	status, _ = submit(t, app, "/students/validate?step=billing", studentTree(nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestStudentValidateBadDate(t *testing.T) {
	tree := studentTree(nil)
	academic, _ := tree.Get("academic")
	tree.Set("academic", academic.(formdata.Object).Set("enrollment_date", "next tuesday"))

	status, body := submit(t, newTestApp(Photos{}), "/students/validate?step=academic", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "academic.enrollment_date")
}

func TestStudentCreateValidation(t *testing.T) {
	tree := formdata.Object{}.
		Set("personal", formdata.Object{}.Set("first_name", "")).
		Set("academic", formdata.Object{}.Set("grade_level", 13)).
		Set("parent_ids", "not-a-uuid")
	status, body := submit(t, newTestApp(Photos{}), "/students", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "parent_ids")

	tree.Set("parent_ids", nil)
	status, body = submit(t, newTestApp(Photos{}), "/students", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "personal.first_name")
	assert.Contains(t, errs, "academic.student_number")
	assert.Contains(t, errs, "academic.grade_level")
}

func TestStudentCreatePhotoErrors(t *testing.T) {
	// no storage configured
	status, _ := submit(t, newTestApp(Photos{}), "/students", studentTree(pngFile(t)))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	store := &memStore{}
	notImage := formdata.File{Name: "cv.txt", Type: "text/plain", Data: []byte("hello")}
	status, body := submit(t, newTestApp(Photos{Storage: store, Options: blob.DefaultWebPOptions()}), "/students", studentTree(notImage))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "personal.photo")
	assert.Empty(t, store.keys)
}

func TestTeacherValidateEmployment(t *testing.T) {
	tree := formdata.Object{}.
		Set("employment", formdata.Object{}.
			Set("employee_number", "").
			Set("subjects", []string{"Math", " physics "}))
	status, body := submit(t, newTestApp(Photos{}), "/teachers/validate?step=employment", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, []any{"is required"}, body["errors"].(map[string]any)["employment.employee_number"])
}

func TestParentContactNeedsEmailOrPhone(t *testing.T) {
	app := newTestApp(Photos{})
	tree := formdata.Object{}.Set("contact", formdata.Object{}.Set("address", "Jl. Melati 3"))

	status, body := submit(t, app, "/parents/validate?step=contact", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "contact.email")
	assert.Contains(t, errs, "contact.phone")

	tree.Set("contact", formdata.Object{}.Set("phone", "+628123456789"))
	status, _ = submit(t, app, "/parents/validate?step=contact", tree)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestParentCreateRejectsRelationship(t *testing.T) {
	tree := formdata.Object{}.
		Set("personal", formdata.Object{}.Set("first_name", "Budi")).
		Set("contact", formdata.Object{}.Set("email", "budi@example.com")).
		Set("relation", formdata.Object{}.Set("relationship", "neighbour"))
	status, body := submit(t, newTestApp(Photos{}), "/parents", tree)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "relation.relationship")
}

func TestPhotosUploadAndDiscard(t *testing.T) {
	store := &memStore{}
	photos := Photos{Storage: store, Prefix: "schoolku", Options: blob.DefaultWebPOptions()}
	school := uuid.New()

	url, err := photos.Upload(context.Background(), school, "students", nil)
	require.NoError(t, err)
	assert.Nil(t, url)

	fh := fileHeader(t, pngFile(t))
	url, err = photos.Upload(context.Background(), school, "students", fh)
	require.NoError(t, err)
	require.NotNil(t, url)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "schoolku/schools/"+school.String()+"/students/"))
	assert.True(t, strings.HasSuffix(store.keys[0], "-me.webp"))

	photos.Discard(context.Background(), url)
	photos.Discard(context.Background(), nil)
	assert.Equal(t, []string{*url}, store.deleted)
}
