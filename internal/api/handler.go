package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shop-admin/internal/service"
	"shop-admin/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by the readiness endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	catalog *service.CatalogService
	people  *service.PeopleService
	orders  *service.OrderService
	notices NoticeStore
	checks  []Pinger
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. checks are pinged by /ready.
func NewHandler(
	catalog *service.CatalogService,
	people *service.PeopleService,
	orders *service.OrderService,
	notices NoticeStore,
	checks ...Pinger,
) *Handler {
	if notices == nil {
		notices = QueryNotices{}
	}
	return &Handler{
		catalog: catalog,
		people:  people,
		orders:  orders,
		notices: notices,
		checks:  checks,
		logger:  util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes and templates
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.SetHTMLTemplate(loadTemplates())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.index)

	router.GET("/products", h.listProducts)
	router.POST("/products/add", h.addProduct)
	router.POST("/products/:id/delete", h.deleteProduct)

	router.GET("/suppliers", h.listSuppliers)
	router.POST("/suppliers/add", h.addSupplier)
	router.POST("/suppliers/:id/delete", h.deleteSupplier)

	router.GET("/customers", h.listCustomers)
	router.POST("/customers/add", h.addCustomer)
	router.POST("/customers/:id/delete", h.deleteCustomer)

	router.GET("/employees", h.listEmployees)
	router.POST("/employees/add", h.addEmployee)
	router.POST("/employees/:id/delete", h.deleteEmployee)

	router.GET("/orders", h.listOrders)
	router.POST("/orders/add", h.addOrder)
	router.GET("/orders/:id", h.orderDetail)
	router.POST("/orders/:id/add_line", h.addOrderLine)
	router.POST("/orders/:id/update_status", h.updateOrderStatus)
	router.POST("/orders/:id/delete", h.deleteOrder)

	router.NoRoute(h.notFound)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings the database and any other configured backend
func (h *Handler) readinessCheck(c *gin.Context) {
	for _, check := range h.checks {
		if err := check.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"time":   time.Now().Unix(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// pathID parses the :id segment. Anything but an integer is a 404.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

// render shows a page together with the notice left by the previous request
func (h *Handler) render(c *gin.Context, name, title string, page interface{}) {
	c.HTML(http.StatusOK, name, gin.H{
		"Title":  title,
		"Notice": h.notices.Take(c.Request.Context(), c.Request.URL.Query()),
		"Page":   page,
	})
}

// finish answers a mutation: a redirect carrying its notice, or the generic
// error page when the operation failed outright
func (h *Handler) finish(c *gin.Context, out service.Outcome, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}

	location := out.Redirect
	if params := h.notices.Put(c.Request.Context(), out.Notice); len(params) > 0 {
		location += "?" + params.Encode()
	}
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.logger.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong. Please try again later.",
	})
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error", gin.H{
		"Title":   "Not found",
		"Message": "The page you asked for does not exist.",
	})
}

// bind reads the submitted form. Only a malformed body fails.
func (h *Handler) bind(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		h.logger.Warn("Malformed form", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.HTML(http.StatusBadRequest, "error", gin.H{
			"Title":   "Bad request",
			"Message": "The submitted form could not be read.",
		})
		return false
	}
	return true
}

func (h *Handler) index(c *gin.Context) {
	h.render(c, "index", "Shop admin", nil)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
