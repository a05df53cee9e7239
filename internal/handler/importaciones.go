// Package handler exposes the HTTP surface: import uploads, job status and
// health.
package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pelotazo/internal/apierror"
	"pelotazo/internal/infra"
	"pelotazo/internal/model"
	"pelotazo/internal/service"
	"pelotazo/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Extensions the readers understand; anything else is rejected at upload.
var extensionesPermitidas = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".json": true,
}

type crearImportacionForm struct {
	Tipo      string `form:"tipo" binding:"omitempty,oneof=productos precios stock"`
	Proveedor string `form:"proveedor" binding:"omitempty,max=40,proveedor"`
}

type ImportacionHandler struct {
	servicio  service.ImportacionService
	cola      worker.Encolador
	uploadDir string
}

func NewImportacionHandler(servicio service.ImportacionService, cola worker.Encolador, uploadDir string) *ImportacionHandler {
	return &ImportacionHandler{servicio: servicio, cola: cola, uploadDir: uploadDir}
}

// Crear receives a tarifa upload, registers the job record and enqueues it.
// Responds 202 immediately; progress is polled by id.
func (h *ImportacionHandler) Crear(c *gin.Context) {
	var form crearImportacionForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(camposInvalidos(err)))
		return
	}
	if form.Tipo == "" {
		form.Tipo = model.TipoProductos
	}

	archivo, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo a importar"))
		return
	}

	ext := strings.ToLower(filepath.Ext(archivo.Filename))
	if !extensionesPermitidas[ext] {
		c.JSON(http.StatusUnsupportedMediaType, apierror.New("Formato no soportado: use csv, xlsx, xls o json"))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.Error(err)
		return
	}
	ruta := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(archivo, ruta); err != nil {
		c.Error(err)
		return
	}

	importacion, err := h.servicio.Crear(c.Request.Context(), form.Tipo, archivo.Filename, form.Proveedor)
	if err != nil {
		_ = os.Remove(ruta)
		c.Error(err)
		return
	}

	trabajo := worker.TrabajoImportacion{
		ImportacionID: importacion.ID,
		Ruta:          ruta,
		Tipo:          form.Tipo,
		Proveedor:     form.Proveedor,
	}
	if err := h.cola.Encolar(c.Request.Context(), trabajo); err != nil {
		_ = os.Remove(ruta)
		c.Error(err)
		return
	}

	log.Info().
		Str("importacion", importacion.ID).
		Str("archivo", archivo.Filename).
		Str("tipo", form.Tipo).
		Msg("importacion encolada")
	c.JSON(http.StatusAccepted, gin.H{
		"id":     importacion.ID,
		"estado": importacion.Estado,
	})
}

// Get returns an import job record, statistics included once it finished.
func (h *ImportacionHandler) Get(c *gin.Context) {
	importacion, err := h.servicio.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		var storeErr *infra.StoreError
		if errors.As(err, &storeErr) && storeErr.Status == http.StatusNotFound {
			c.JSON(http.StatusNotFound, apierror.New("Importacion no encontrada"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, importacion)
}
