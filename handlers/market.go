package handlers

import (
	"errors"
	"net/http"

	"paper-trader/apperror"
	"paper-trader/quote"

	"github.com/gin-gonic/gin"
)

func (h *Handler) QuotePage(c *gin.Context) {
	h.render(c, http.StatusOK, "quote.html", "Quote", nil)
}

func (h *Handler) Quote(c *gin.Context) {
	var form symbolForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}
	symbol, err := quote.NormalizeSymbol(form.Symbol)
	if err != nil {
		h.Apology(c, err)
		return
	}

	q, err := h.Quotes.Lookup(c.Request.Context(), symbol)
	if errors.Is(err, quote.ErrNotFound) {
		h.Apology(c, apperror.ErrInvalidSymbol)
		return
	}
	if err != nil {
		h.Apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "quoted.html", "Quoted", gin.H{"Quote": q})
}
