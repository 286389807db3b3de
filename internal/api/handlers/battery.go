package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"battery-savings/internal/api/models"
	"battery-savings/internal/config"
	"battery-savings/internal/logger"
)

// ErrBatteryNotFound is returned for an unknown preset id.
var ErrBatteryNotFound = errors.New("battery preset not found")

// Preset is one battery file from the catalog directory.
type Preset struct {
	ID      string
	Battery config.BatteryConfig
}

// BatteryCatalog serves battery presets from a directory of YAML files.
// The preset id is the file name without ".yaml".
type BatteryCatalog struct {
	dir string
	log logger.Logger
}

// NewBatteryCatalog resolves dir to an absolute path. The directory may be
// missing, in which case the catalog is empty.
func NewBatteryCatalog(dir string, log logger.Logger) *BatteryCatalog {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Infof("battery catalog: using %s", dir)
	return &BatteryCatalog{dir: dir, log: log}
}

func (b *BatteryCatalog) Dir() string { return b.dir }

// List returns every readable preset sorted by id. Unreadable files are
// logged and skipped.
func (b *BatteryCatalog) List() []Preset {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.log.Warnf("battery catalog: read %s: %v", b.dir, err)
		return nil
	}
	var out []Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		p, err := b.Load(id)
		if err != nil {
			b.log.Warnf("battery catalog: skipping %s: %v", entry.Name(), err)
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Load reads a single preset. Ids containing path elements are rejected.
func (b *BatteryCatalog) Load(id string) (Preset, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return Preset{}, fmt.Errorf("%w: %q", ErrBatteryNotFound, id)
	}
	bc, err := config.LoadBatteryFile(filepath.Join(b.dir, id+".yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return Preset{}, fmt.Errorf("%w: %q", ErrBatteryNotFound, id)
	}
	if err != nil {
		return Preset{}, err
	}
	if bc.Name == "" {
		bc.Name = id
	}
	return Preset{ID: id, Battery: bc}, nil
}

// BatteryHandler handles battery-related requests
type BatteryHandler struct {
	catalog *BatteryCatalog
}

// NewBatteryHandler creates a new battery handler
func NewBatteryHandler(deps *Deps) *BatteryHandler {
	return &BatteryHandler{catalog: deps.Batteries}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := []models.BatteryInfo{}
	for _, p := range h.catalog.List() {
		batteries = append(batteries, models.BatteryInfo{
			ID:   p.ID,
			Name: p.Battery.Name,
			Specs: models.BatterySpecs{
				CapacityKWh: p.Battery.CapacityKWh,
				Efficiency:  p.Battery.Efficiency,
				MaxPowerKW:  p.Battery.MaxPowerKW,
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}
