package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/daycarehq/daycare_backend/internal/export"
	"github.com/daycarehq/daycare_backend/internal/model"
	"github.com/daycarehq/daycare_backend/internal/registry"
	"github.com/daycarehq/daycare_backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewHandler(bookings *service.BookingService, logger *zap.Logger) *Handler {
	return &Handler{bookings: bookings, logger: logger}
}

// GET /
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Daycare Booking Backend Running"})
}

// GET /bookings
func (h *Handler) List(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /book
// Body: { name, age, phone, slots: ["Monday|9:00–10:00 AM", ...] }
func (h *Handler) Book(c *gin.Context) {
	var in struct {
		Name  string   `json:"name"`
		Age   any      `json:"age"` // клиенты шлют и число, и строку
		Phone string   `json:"phone"`
		Slots []string `json:"slots"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	booking, err := h.bookings.Submit(c.Request.Context(), service.Candidate{
		Name:  in.Name,
		Age:   ageString(in.Age),
		Phone: in.Phone,
		Slots: in.Slots,
	})
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if conflicting, ok := registry.IsSlotsFull(err); ok {
			c.JSON(http.StatusConflict, gin.H{
				"message":   "Some slots are already booked",
				"conflicts": conflicting,
			})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booked successfully", "booking": booking})
}

// DELETE /bookings/:id
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
		return
	}

	if err := h.bookings.Cancel(c.Request.Context(), id); err != nil {
		if err == registry.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// GET /export
func (h *Handler) Export(c *gin.Context) {
	rows, err := h.bookings.Export(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(time.Now())))
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, rows); err != nil {
		h.logger.Error("Failed to write CSV export", zap.Error(err))
	}
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

// ageString нормализует возраст из JSON: число или строка — в строку
// для валидатора.
func ageString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", a)
	}
}
