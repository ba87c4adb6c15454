// Package api expõe o editor interativo de pontos: listar, selecionar,
// registrar, atualizar e remover landmarks de um World.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"LandmarkVision/shared/camera"
	"LandmarkVision/shared/landmark"
	"LandmarkVision/shared/store"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Editor Handler
// ============================================================

type Handler struct {
	world    *landmark.World
	fileName string
	snapshot *store.Snapshot // nil = sem SQLite
	camera   *camera.Perspective

	mu       sync.Mutex
	selected string
}

// NewHandler cria o handler. Se cam não for nil, passa a ser o projetor do mundo.
func NewHandler(world *landmark.World, fileName string, snapshot *store.Snapshot, cam *camera.Perspective) *Handler {
	if cam != nil {
		world.SetProjector(cam)
	}
	return &Handler{
		world:    world,
		fileName: fileName,
		snapshot: snapshot,
		camera:   cam,
	}
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type recordPayload struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Type         string   `json:"type"`
	Position     position `json:"position"`
	HeightMin    float64  `json:"heightMin"`
	HeightMax    float64  `json:"heightMax"`
	Value        int32    `json:"value"`
	VisualOffset offset   `json:"visualOffset"`
	Handle       uint64   `json:"handle,omitempty"`
}

type visiblePayload struct {
	recordPayload
	ScreenX float64 `json:"screenX"`
	ScreenY float64 `json:"screenY"`
	Scale   float64 `json:"scale"`
	Alpha   float64 `json:"alpha"`
}

func toPayload(rec landmark.Record) recordPayload {
	return recordPayload{
		ID:           rec.ID,
		DisplayName:  rec.DisplayName,
		Type:         rec.Type,
		Position:     position{X: rec.Position.X, Y: rec.Position.Y},
		HeightMin:    rec.HeightMin,
		HeightMax:    rec.HeightMax,
		Value:        rec.Value,
		VisualOffset: offset{X: rec.VisualOffset.X, Y: rec.VisualOffset.Y, Z: rec.VisualOffset.Z},
		Handle:       uint64(rec.ExternalHandle),
	}
}

func (p recordPayload) record() landmark.Record {
	rec := landmark.Record{
		ID:           p.ID,
		DisplayName:  p.DisplayName,
		Type:         p.Type,
		Position:     landmark.Position{X: p.Position.X, Y: p.Position.Y},
		HeightMin:    p.HeightMin,
		HeightMax:    p.HeightMax,
		Value:        p.Value,
		VisualOffset: landmark.Vec3{X: p.VisualOffset.X, Y: p.VisualOffset.Y, Z: p.VisualOffset.Z},
	}
	if rec.HeightMin == 0 && rec.HeightMax == 0 {
		rec.HeightMax = landmark.DefaultHeightMax
	}
	return rec
}

func parseBody(c fiber.Ctx) (recordPayload, error) {
	var req recordPayload
	if len(c.Body()) == 0 {
		return req, fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return req, fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	return req, nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// List lista os landmarks em ordem de registro. ?type= filtra por tipo.
func (h *Handler) List(c fiber.Ctx) error {
	typeFilter := c.Query("type")
	out := make([]recordPayload, 0)
	for _, rec := range h.world.All() {
		if typeFilter != "" && !strings.EqualFold(rec.Type, typeFilter) {
			continue
		}
		out = append(out, toPayload(rec))
	}
	return c.JSON(out)
}

// Get retorna um landmark.
func (h *Handler) Get(c fiber.Ctx) error {
	rec, ok := h.world.Get(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "landmark not found"})
	}
	return c.JSON(toPayload(rec))
}

// Create registra (ou faz merge de) um landmark.
func (h *Handler) Create(c fiber.Ctx) error {
	req, err := parseBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	id := h.world.Register(req.record())
	log.Printf("[Editor] Landmark registrado: %s", id)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// Update substitui um landmark existente.
func (h *Handler) Update(c fiber.Ctx) error {
	req, err := parseBody(c)
	if err != nil {
		return badRequest(c, err)
	}
	id := c.Params("id")
	if !h.world.Update(id, req.record()) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "landmark not found"})
	}
	h.world.Invalidate()
	rec, _ := h.world.Get(id)
	return c.JSON(toPayload(rec))
}

// Delete remove um landmark.
func (h *Handler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.world.Unregister(id) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "landmark not found"})
	}
	h.mu.Lock()
	if h.selected == id {
		h.selected = ""
	}
	h.mu.Unlock()
	h.world.Invalidate()
	return c.SendStatus(http.StatusNoContent)
}

// Select marca um landmark como selecionado.
func (h *Handler) Select(c fiber.Ctx) error {
	id := c.Params("id")
	rec, ok := h.world.Get(id)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "landmark not found"})
	}
	h.mu.Lock()
	h.selected = id
	h.mu.Unlock()
	return c.JSON(toPayload(rec))
}

// Selected retorna o landmark selecionado.
func (h *Handler) Selected(c fiber.Ctx) error {
	h.mu.Lock()
	id := h.selected
	h.mu.Unlock()

	rec, ok := h.world.Get(id)
	if id == "" || !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(toPayload(rec))
}

// Move desloca o landmark selecionado (arrastar no editor).
func (h *Handler) Move(c fiber.Ctx) error {
	var req position
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, fiber.NewError(http.StatusBadRequest, "invalid json"))
	}

	h.mu.Lock()
	id := h.selected
	h.mu.Unlock()

	rec, ok := h.world.Get(id)
	if id == "" || !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "nothing selected"})
	}
	rec.Position = landmark.Position{X: req.X, Y: req.Y}
	h.world.Update(id, rec)
	h.world.Invalidate()
	return c.JSON(toPayload(rec))
}

// Save grava o registro no arquivo JSON do mundo.
func (h *Handler) Save(c fiber.Ctx) error {
	records := h.world.All()
	if err := h.world.SaveToFile(h.fileName, records); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"saved": len(records), "file": h.world.Files().Path(h.fileName)})
}

// Snapshot grava o registro no SQLite do mundo.
func (h *Handler) Snapshot(c fiber.Ctx) error {
	if h.snapshot == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "snapshot store disabled"})
	}
	records := h.world.All()
	if err := h.snapshot.Save(records); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"saved": len(records)})
}

func queryFloat(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// Visible resolve a visibilidade para uma câmera informada na query
// (x, y, z, pitch, yaw) e retorna o que seria desenhado.
func (h *Handler) Visible(c fiber.Ctx) error {
	if h.camera == nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "camera disabled"})
	}

	var vals [5]float64
	defaults := [5]float64{0, 0, 1000, -90, 0}
	for i, key := range []string{"x", "y", "z", "pitch", "yaw"} {
		v, err := queryFloat(c, key, defaults[i])
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + key})
		}
		vals[i] = v
	}

	pos := landmark.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
	rot := landmark.Rotator{Pitch: vals[3], Yaw: vals[4]}
	vis := h.world.Resolve(pos, rot, h.camera.SetPose)
	out := make([]visiblePayload, 0, vis.Len())
	for i, rec := range vis.Records {
		out = append(out, visiblePayload{
			recordPayload: toPayload(rec),
			ScreenX:       vis.ScreenPositions[i].X,
			ScreenY:       vis.ScreenPositions[i].Y,
			Scale:         vis.Scales[i],
			Alpha:         vis.Alphas[i],
		})
	}
	return c.JSON(out)
}

// ============================================================
// App
// ============================================================

// NewApp monta o app fiber com middlewares e rotas.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "LandmarkVision Editor",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[Editor] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/landmarks", h.List)
	app.Post("/landmarks", h.Create)
	app.Get("/landmarks/:id", h.Get)
	app.Put("/landmarks/:id", h.Update)
	app.Delete("/landmarks/:id", h.Delete)

	app.Post("/select/:id", h.Select)
	app.Get("/selected", h.Selected)
	app.Post("/selected/move", h.Move)

	app.Get("/visible", h.Visible)
	app.Post("/save", h.Save)
	app.Post("/snapshot", h.Snapshot)

	return app
}
