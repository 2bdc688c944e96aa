package handlers

import (
	"net/http"

	"paper-trader/quote"

	"github.com/gin-gonic/gin"
)

func (h *Handler) BuyPage(c *gin.Context) {
	h.render(c, http.StatusOK, "buy.html", "Buy", nil)
}

func (h *Handler) Buy(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var form orderForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}
	symbol, err := quote.NormalizeSymbol(form.Symbol)
	if err != nil {
		h.Apology(c, err)
		return
	}
	shares, err := parseShares(form.Shares)
	if err != nil {
		h.Apology(c, err)
		return
	}

	if _, err := h.Ledger.RecordBuy(c.Request.Context(), userID, symbol, shares); err != nil {
		h.Apology(c, err)
		return
	}
	redirectHome(c)
}

// SellPage offers only the symbols the user currently holds.
func (h *Handler) SellPage(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	positions, err := h.Ledger.Positions(c.Request.Context(), userID)
	if err != nil {
		h.Apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "sell.html", "Sell", gin.H{"Positions": positions})
}

func (h *Handler) Sell(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var form orderForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}
	symbol, err := quote.NormalizeSymbol(form.Symbol)
	if err != nil {
		h.Apology(c, err)
		return
	}
	shares, err := parseShares(form.Shares)
	if err != nil {
		h.Apology(c, err)
		return
	}

	if _, err := h.Ledger.RecordSell(c.Request.Context(), userID, symbol, shares); err != nil {
		h.Apology(c, err)
		return
	}
	redirectHome(c)
}

func (h *Handler) AddCashPage(c *gin.Context) {
	h.render(c, http.StatusOK, "addcash.html", "Add Cash", nil)
}

func (h *Handler) AddCash(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var form cashForm
	if err := c.ShouldBind(&form); err != nil {
		h.Apology(c, errBadForm)
		return
	}
	amount, err := parseCash(form.Cash)
	if err != nil {
		h.Apology(c, err)
		return
	}

	if err := h.Ledger.AddCash(c.Request.Context(), userID, amount); err != nil {
		h.Apology(c, err)
		return
	}
	redirectHome(c)
}
