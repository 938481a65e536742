package server

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gogpu/canvas"
)

const (
	defaultThumb = 64
	maxThumb     = 512
)

type handlers struct {
	root string
}

type layerInfo struct {
	Index   int     `json:"index"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

type projectInfo struct {
	Name   string      `json:"name"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Layers []layerInfo `json:"layers"`
}

func (h *handlers) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *handlers) listProjects(c fiber.Ctx) error {
	entries, err := os.ReadDir(h.root)
	if err != nil {
		return err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), canvas.ProjectExt) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	slices.Sort(names)
	return c.JSON(fiber.Map{"projects": names})
}

func (h *handlers) project(c fiber.Ctx) error {
	name, st, err := h.load(c)
	if err != nil {
		return err
	}
	size := st.Size()
	info := projectInfo{Name: name, Width: size.X, Height: size.Y, Layers: []layerInfo{}}
	for i, l := range st.Layers() {
		info.Layers = append(info.Layers, layerInfo{
			Index:   i,
			ID:      l.ID().String(),
			Name:    l.Name(),
			Visible: l.Visible(),
			Opacity: l.Opacity(),
		})
	}
	return c.JSON(info)
}

func (h *handlers) composite(c fiber.Ctx) error {
	_, st, err := h.load(c)
	if err != nil {
		return err
	}
	if st.Len() == 0 {
		return fiber.NewError(http.StatusUnprocessableEntity, "project has no layers")
	}
	return sendPNG(c, st.CompositeImage(st.Size()))
}

func (h *handlers) thumbnail(c fiber.Ctx) error {
	_, st, err := h.load(c)
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid layer index")
	}
	l := st.Layer(canvas.StackIndex(i))
	if l == nil {
		return fiber.NewError(http.StatusNotFound, "layer not found")
	}
	w, err := thumbSize(c.Query("w"))
	if err != nil {
		return err
	}
	hh, err := thumbSize(c.Query("h"))
	if err != nil {
		return err
	}
	return sendPNG(c, canvas.FromImage(l.Thumbnail(w, hh)))
}

// resolve maps a project name to a file inside root. Names that would
// escape root are rejected.
func (h *handlers) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fiber.NewError(http.StatusBadRequest, "invalid project name")
	}
	if !strings.EqualFold(filepath.Ext(name), canvas.ProjectExt) {
		name += canvas.ProjectExt
	}
	return filepath.Join(h.root, name), nil
}

func (h *handlers) load(c fiber.Ctx) (string, *canvas.Stack, error) {
	name := c.Params("name")
	path, err := h.resolve(name)
	if err != nil {
		return "", nil, err
	}
	st := canvas.NewStack()
	if err := canvas.LoadProject(path, st); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fiber.NewError(http.StatusNotFound, "project not found")
		}
		canvas.Logger().Warn("server: unreadable project", "path", path, "err", err)
		return "", nil, fiber.NewError(http.StatusUnprocessableEntity, "unreadable project")
	}
	return name, st, nil
}

func thumbSize(q string) (int, error) {
	if q == "" {
		return defaultThumb, nil
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > maxThumb {
		return 0, fiber.NewError(http.StatusBadRequest, "thumbnail size must be 1.."+strconv.Itoa(maxThumb))
	}
	return n, nil
}

func sendPNG(c fiber.Ctx, pm *canvas.Pixmap) error {
	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf, pm); err != nil {
		return err
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}
