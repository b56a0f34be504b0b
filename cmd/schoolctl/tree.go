package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gofiber/utils"

	"schoolku_backend/internals/helpers/formdata"
)

// loadTrees reads every YAML document of r as an ordered value tree. String
// leaves starting with "@" name a file (relative to baseDir) that is sent as
// an upload; "@@" escapes a literal "@".
func loadTrees(r io.Reader, baseDir string) ([]formdata.Object, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	var out []formdata.Object
	for i := 0; ; i++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if doc == nil {
			continue
		}
		v, err := toTree(doc, baseDir)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		obj, ok := v.(formdata.Object)
		if !ok {
			return nil, fmt.Errorf("document %d: top level must be a mapping, got %T", i, doc)
		}
		out = append(out, obj)
	}
}

func loadTreesFile(path string) ([]formdata.Object, error) {
	if path == "-" {
		return loadTrees(os.Stdin, ".")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	trees, err := loadTrees(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trees, nil
}

func toTree(v any, baseDir string) (any, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		obj := make(formdata.Object, 0, len(x))
		for _, item := range x {
			val, err := toTree(item.Value, baseDir)
			if err != nil {
				return nil, err
			}
			obj = append(obj, formdata.Field{Key: fmt.Sprint(item.Key), Value: val})
		}
		return obj, nil
	case []any:
		arr := make([]any, len(x))
		for i, e := range x {
			val, err := toTree(e, baseDir)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case string:
		switch {
		case strings.HasPrefix(x, "@@"):
			return x[1:], nil
		case strings.HasPrefix(x, "@") && len(x) > 1:
			return readFile(filepath.Join(baseDir, x[1:]))
		}
		return x, nil
	default:
		return v, nil
	}
}

func readFile(path string) (formdata.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formdata.File{}, fmt.Errorf("attach: %w", err)
	}
	return formdata.File{
		Name: filepath.Base(path),
		Type: utils.GetMIME(filepath.Ext(path)),
		Data: data,
	}, nil
}
