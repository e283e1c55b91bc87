package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
)

// formValue reads a field from the POST form, falling back to the query
// string so callers can use either.
func formValue(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}

func (s *Server) handlePrice(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		writeError(c, http.StatusBadRequest, "No symbol provided")
		return
	}

	price, err := s.gateway.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price.InexactFloat64()})
}

func (s *Server) handleOrder(c *gin.Context) {
	raw := formValue(c, "command")
	if raw == "" {
		side := formValue(c, "side")
		symbol := formValue(c, "symbol")
		price := formValue(c, "price")
		quantity := formValue(c, "quantity")
		if side == "" || symbol == "" || price == "" || quantity == "" {
			writeError(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		raw = strings.Join([]string{side, symbol, price, quantity}, " ")
	}

	result := s.dispatcher.Dispatch(c.Request.Context(), raw)
	if result.Err != nil {
		writeError(c, http.StatusBadRequest, result.Err.Error())
		return
	}
	c.JSON(http.StatusOK, result.Receipt)
}

func (s *Server) handleBalances(c *gin.Context) {
	balances, err := s.gateway.AccountBalances(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	held := make([]domain.Balance, 0, len(balances))
	for _, b := range balances {
		if b.HasFunds() {
			held = append(held, b)
		}
	}
	c.JSON(http.StatusOK, gin.H{"balances": held})
}

func (s *Server) handleOpenOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"open_orders": s.store.Snapshot()})
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	symbol := formValue(c, "symbol")
	rawOrderID := formValue(c, "orderId")
	if symbol == "" || rawOrderID == "" {
		writeError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	orderID, err := strconv.ParseInt(rawOrderID, 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid orderId")
		return
	}

	if err := s.gateway.CancelOrder(c.Request.Context(), symbol, orderID); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "Order canceled successfully"})
}

func (s *Server) handleTradeHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		writeError(c, http.StatusBadRequest, "No symbol provided")
		return
	}

	days := 3
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	end := time.Now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	trades, err := s.gateway.TradeHistory(c.Request.Context(), symbol, start, end)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if trades == nil {
		trades = []domain.Trade{}
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

func (s *Server) handleTradeCommand(c *gin.Context) {
	text := c.PostForm("text")
	responseURL := c.PostForm("response_url")
	if text == "" {
		writeError(c, http.StatusBadRequest, "No command provided")
		return
	}

	// Ack now, deliver the outcome through the response URL.
	if responseURL != "" {
		go s.dispatcher.Respond(context.Background(), responseURL, text)
	} else {
		go s.dispatcher.Dispatch(context.Background(), text)
	}
	c.JSON(http.StatusOK, gin.H{"response": "Trade command processed"})
}
