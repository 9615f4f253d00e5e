package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zono819/trading-sim/internal/domain/entity"
	"github.com/zono819/trading-sim/internal/infrastructure/logger"
	"github.com/zono819/trading-sim/internal/usecase/executor"
	"github.com/zono819/trading-sim/internal/usecase/hub"
	"github.com/zono819/trading-sim/internal/usecase/store"
)

// orderInput is the create-order request body. Quantity is a pointer so
// that an explicit zero passes the presence check; its value is
// otherwise accepted as-is.
type orderInput struct {
	Symbol   string   `json:"symbol" binding:"required"`
	Quantity *float64 `json:"quantity" binding:"required"`
}

// apiError is the error response body
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handler wires the orders REST API to the store, executor and hub
type Handler struct {
	store *store.OrderStore
	exec  *executor.DelayedExecutor
	hub   *hub.Hub
	log   *logger.Logger
}

// NewHandler creates a REST handler
func NewHandler(s *store.OrderStore, e *executor.DelayedExecutor, h *hub.Hub, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		store: s,
		exec:  e,
		hub:   h,
		log:   log.WithField("component", "rest"),
	}
}

// Register mounts the orders routes on the router
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/orders", h.createOrder)
	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrder)
	r.DELETE("/orders/:id", h.cancelOrder)
}

func (h *Handler) createOrder(c *gin.Context) {
	var in orderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "invalid order payload",
		})
		return
	}

	o := h.store.Create(in.Symbol, *in.Quantity)
	h.exec.Schedule(o.ID)
	h.hub.Broadcast(h.store.List())

	h.log.Info("order created: %s %s x %v", o.ID, o.Symbol, o.Quantity)
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

func (h *Handler) getOrder(c *gin.Context) {
	o, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apiError{
			Code:    http.StatusNotFound,
			Message: "order not found",
		})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Cancel(id); err != nil {
		switch {
		case errors.Is(err, entity.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, apiError{
				Code:    http.StatusNotFound,
				Message: "order not found",
			})
		case errors.Is(err, entity.ErrOrderNotPending):
			c.JSON(http.StatusBadRequest, apiError{
				Code:    http.StatusBadRequest,
				Message: "order can only be cancelled while in PENDING state",
			})
		default:
			c.JSON(http.StatusInternalServerError, apiError{
				Code:    http.StatusInternalServerError,
				Message: "internal error",
			})
		}
		return
	}

	h.hub.Broadcast(h.store.List())
	h.log.Info("order cancelled: %s", id)
	c.Status(http.StatusNoContent)
}

// SimulateDelay returns middleware that sleeps for d on every request,
// mimicking backend processing latency. A non-positive d is a no-op.
func SimulateDelay(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d > 0 {
			time.Sleep(d)
		}
		c.Next()
	}
}
