package document

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smarttermos/termos/internal/platform/search"
	"github.com/smarttermos/termos/pkg/pagination"
)

type Handler struct {
	svc       *Service
	generator *Generator
	exporter  *PDFExporter
	deliverer *Deliverer
}

func NewHandler(svc *Service, generator *Generator, exporter *PDFExporter, deliverer *Deliverer) *Handler {
	return &Handler{svc: svc, generator: generator, exporter: exporter, deliverer: deliverer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/:id", h.GetDocument)
	api.POST("/documents", h.CreateDocument)
	api.PUT("/documents/:id", h.UpdateDocument)
	api.DELETE("/documents/:id", h.DeleteDocument)
	api.POST("/documents/generate", h.GenerateDraft)
	api.POST("/documents/:id/sign", h.SignDocument)
	api.POST("/documents/:id/send", h.SendDocument)
	api.GET("/documents/:id/pdf", h.ExportPDF)
}

func (h *Handler) CreateDocument(c echo.Context) error {
	var d Document
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDocument(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDocument(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "documento não encontrado")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDocuments(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := search.ExtractParams(c)
	items, total, err := h.svc.SearchDocuments(c.Request().Context(), params, pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d Document
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDocument(c.Request().Context(), &d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDocument(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type generateRequest struct {
	ProcedureName string `json:"procedure_name"`
	Category      string `json:"category"`
}

func (h *Handler) GenerateDraft(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ProcedureName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "procedure_name é obrigatório")
	}
	return c.JSON(http.StatusOK, h.generator.Generate(req.ProcedureName, req.Category))
}

type signRequest struct {
	Signature string `json:"signature"`
}

func (h *Handler) SignDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req signRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Sign(c.Request().Context(), id, req.Signature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) SendDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.deliverer.Deliver(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrSendFailed) {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) ExportPDF(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDocument(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "documento não encontrado")
	}
	pdfBytes, err := h.exporter.Export(d)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="termo-%s.pdf"`, d.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
