package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index shows holdings at current prices, cash and grand total.
func (h *Handler) Index(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	summary, err := h.Portfolio.Summarize(c.Request.Context(), userID)
	if err != nil {
		h.Apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", "Portfolio", gin.H{"Summary": summary})
}

func (h *Handler) History(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	txns, err := h.Ledger.History(c.Request.Context(), userID)
	if err != nil {
		h.Apology(c, err)
		return
	}
	h.render(c, http.StatusOK, "history.html", "History", gin.H{"Transactions": txns})
}
