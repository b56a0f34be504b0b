package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/client"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/formdata"
)

const studentsYAML = `personal:
  first_name: Siti
  last_name: ~
  photo: "@siti.png"
academic:
  student_number: S-0042
  grade_level: 7
parent_ids: [p1, p2]
handle: "@@siti"
---
personal:
  first_name: Budi
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siti.png"), []byte("PNGDATA"), 0o644))
	path := filepath.Join(dir, "students.yaml")
	require.NoError(t, os.WriteFile(path, []byte(studentsYAML), 0o644))
	return path
}

func TestLoadTrees(t *testing.T) {
	trees, err := loadTreesFile(writeFixture(t))
	require.NoError(t, err)
	require.Len(t, trees, 2)

	first := trees[0]
	assert.Equal(t, []string{"personal", "academic", "parent_ids", "handle"}, first.Keys())

	personal, _ := first.Get("personal")
	photo, _ := personal.(formdata.Object).Get("photo")
	assert.Equal(t, formdata.File{Name: "siti.png", Type: "image/png", Data: []byte("PNGDATA")}, photo)

	handle, _ := first.Get("handle")
	assert.Equal(t, "@siti", handle)
}

func TestLoadTreesErrors(t *testing.T) {
	_, err := loadTrees(strings.NewReader("- just\n- a list\n"), ".")
	assert.ErrorContains(t, err, "top level must be a mapping")

	_, err = loadTrees(strings.NewReader("photo: \"@missing.png\"\n"), t.TempDir())
	assert.ErrorContains(t, err, "attach")

	trees, err := loadTrees(strings.NewReader(""), ".")
	require.NoError(t, err)
	assert.Empty(t, trees)
}

func TestFlattenOutput(t *testing.T) {
	trees, err := loadTreesFile(writeFixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, flattenTo(&buf, trees, nil))
	want := `personal.first_name = Siti
personal.photo = <file siti.png image/png>
academic.student_number = S-0042
academic.grade_level = 7
parent_ids = p1,p2
handle = @siti
---
personal.first_name = Budi
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("flatten output (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, flattenTo(&buf, trees[:1], &formdata.EncodeOptions{IncludeNullValues: true}))
	assert.Contains(t, buf.String(), `personal.last_name = ""`)
}

func fakeAPI(t *testing.T) (string, func() []string) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []string
	)
	app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		mu.Lock()
		seen = append(seen, c.Method()+" "+c.OriginalURL())
		mu.Unlock()
		return c.Next()
	})
	app.Post("/api/a/students/validate", func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "Step is valid", fiber.Map{"valid": true, "step": c.Query("step")})
	})
	app.Post("/api/a/students", func(c *fiber.Ctx) error {
		form, err := formdata.ParseForm(c)
		if err != nil {
			return err
		}
		if _, ok := form["academic"]; !ok {
			return helper.JsonValidationError(c, map[string][]string{"academic.student_number": {"is required"}})
		}
		return helper.JsonCreated(c, "Student created", nil)
	})
	app.Patch("/api/a/students/:id", func(c *fiber.Ctx) error {
		return helper.JsonUpdated(c, "Student updated", nil)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String(), func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

func TestSubmitAll(t *testing.T) {
	base, seen := fakeAPI(t)
	trees, err := loadTreesFile(writeFixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	cl := client.New(base, "tok")
	failed := submitAll(context.Background(), cl, newPrinter(&buf), submitTarget{Resource: "students"}, trees)
	assert.Equal(t, 1, failed)
	assert.Equal(t, `✓ 201 students #1: Student created
✗ 422 students #2: validation failed
    academic.student_number: is required
`, buf.String())

	buf.Reset()
	failed = submitAll(context.Background(), cl, newPrinter(&buf), submitTarget{Resource: "students", ID: "42"}, trees[:1])
	assert.Zero(t, failed)
	assert.Contains(t, buf.String(), "200 students #1: Student updated")

	buf.Reset()
	failed = submitAll(context.Background(), cl, newPrinter(&buf), submitTarget{Resource: "students", Step: "personal"}, trees[:1])
	assert.Zero(t, failed)
	assert.Contains(t, buf.String(), "students #1 [personal]: Step is valid")

	assert.Equal(t, []string{
		"POST /api/a/students",
		"POST /api/a/students",
		"PATCH /api/a/students/42",
		"POST /api/a/students/validate?step=personal",
	}, seen())
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}
