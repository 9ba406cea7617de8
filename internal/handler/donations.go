package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

// DonationHandler exposes donation intake and the admin donation list.
type DonationHandler struct {
	Donations *service.DonationService
}

func NewDonationHandler(s *service.DonationService) *DonationHandler {
	return &DonationHandler{Donations: s}
}

type donationReq struct {
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	Tipo        string `json:"tipo"`
	Item        string `json:"item"`
	LivroID     *int64 `json:"livro_id"`
	LGPDConsent bool   `json:"lgpdConsent"`
}

func (r donationReq) input() service.DonationInput {
	return service.DonationInput{
		Nome:    r.Nome,
		Email:   r.Email,
		Tipo:    r.Tipo,
		Item:    r.Item,
		LivroID: r.LivroID,
		Consent: r.LGPDConsent,
	}
}

// List: GET /doacoes?search=&tipo=
func (h *DonationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Donations.List(ctx, c.QueryParam("search"), c.QueryParam("tipo"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "doacoes": list})
}

// Get: GET /doacoes/:id
func (h *DonationHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "doacao": d})
}

// Create: POST /doacoes (public donation form)
func (h *DonationHandler) Create(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Create(ctx, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"doacao":  d,
		"message": "Doação registrada com sucesso!",
	})
}

// Update: PUT /doacoes/:id
func (h *DonationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Update(ctx, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "doacao": d})
}

// Delete: DELETE /doacoes/:id
func (h *DonationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidID})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Donations.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Doação excluída com sucesso"})
}
