package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

// BookHandler exposes the catalog.
type BookHandler struct {
	Books *service.BookService
}

func NewBookHandler(s *service.BookService) *BookHandler { return &BookHandler{Books: s} }

type bookReq struct {
	Titulo     string `json:"titulo"`
	Autor      string `json:"autor"`
	Quantidade int    `json:"quantidade"`
}

type quantityReq struct {
	Quantidade *int `json:"quantidade"`
}

// List: GET /livros?search=  (and GET /livros/buscar?q=)
func (h *BookHandler) List(c echo.Context) error {
	search := c.QueryParam("search")
	if search == "" {
		search = c.QueryParam("q")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	books, err := h.Books.List(ctx, search)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "livros": books})
}

// Get: GET /livros/:id
func (h *BookHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Books.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "livro": b})
}

// Create: POST /livros
func (h *BookHandler) Create(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Books.Create(ctx, service.BookInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "livro": b})
}

// Update: PUT /livros/:id
func (h *BookHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Books.Update(ctx, id, service.BookInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "livro": b})
}

// SetQuantity: PATCH /livros/:id/quantidade
func (h *BookHandler) SetQuantity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	var req quantityReq
	if err := c.Bind(&req); err != nil || req.Quantidade == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Quantidade é obrigatória"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Books.SetQuantity(ctx, id, *req.Quantidade)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "livro": b})
}

// Delete: DELETE /livros/:id
func (h *BookHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Books.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Livro excluído com sucesso"})
}
