package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// writeError renders resolver and calendar rejections with their details.
func writeError(c *gin.Context, err error) {
	var conflictErr *booking.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, NewConflictErrorResponse(conflictErr))
		return
	}
	var dateErr *booking.UnavailableDateError
	if errors.As(err, &dateErr) {
		c.JSON(http.StatusUnprocessableEntity, UnavailableDateResponse{
			Error:   booking.ErrDateUnavailable.Message,
			Kind:    apperror.KindOf(err),
			Date:    dateErr.Date.Format(dateLayout),
			Reason:  string(dateErr.Reason),
			Details: dateErr.Details,
		})
		return
	}
	response.Error(c, err)
}

// List returns bookings. Non-admins only ever see their own.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	filterUserID := auth.GetUserID(c)
	if auth.IsAdmin(c) {
		filterUserID = req.UserID // empty lists everyone
	}

	from, to := req.dateBounds()
	filter := booking.Filter{
		UserID:     filterUserID,
		ZoneID:     req.ZoneID,
		FacilityID: req.FacilityID,
		Status:     req.Status,
		DateFrom:   from,
		DateTo:     to,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  strings.ToUpper(req.SortOrder),
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewBookingListResponse(bookings), req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ZoneID:     body.ZoneID,
		UserID:     auth.GetUserID(c),
		BookedBy:   body.BookedBy,
		Date:       parseDate(body.Date),
		TimeSlot:   body.TimeSlot,
		UserGroups: body.UserGroups,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// CreateRecurring books one slot on several dates, all or nothing.
func (h *Handler) CreateRecurring(c *gin.Context) {
	var body CreateRecurringBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	dates := make([]time.Time, len(body.Dates))
	for i, d := range body.Dates {
		dates[i] = parseDate(d)
	}

	bookings, err := h.service.CreateRecurring(c.Request.Context(), booking.RecurringRequest{
		ZoneID:     body.ZoneID,
		UserID:     auth.GetUserID(c),
		BookedBy:   body.BookedBy,
		Dates:      dates,
		TimeSlot:   body.TimeSlot,
		UserGroups: body.UserGroups,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": NewBookingListResponse(bookings)})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if b.UserID != auth.GetUserID(c) && !auth.IsAdmin(c) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, booking.Status(body.Status), auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
