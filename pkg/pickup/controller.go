package pickup

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/apiresponses"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

// Controller exposes the escalation engine over REST.
type Controller struct {
	log        *zap.SugaredLogger
	engine     *Engine
	cache      *SnapshotCache
	middleware []gin.HandlerFunc
}

// NewController creates the pickup API controller. cache may be nil.
func NewController(log *zap.SugaredLogger, engine *Engine, cache *SnapshotCache, middleware ...gin.HandlerFunc) *Controller {
	return &Controller{
		log:        log.Named("pickup-api"),
		engine:     engine,
		cache:      cache,
		middleware: middleware,
	}
}

// BasePath returns the base path for pickup routes.
func (c *Controller) BasePath() string {
	return "pickup"
}

// Handlers returns middleware to apply to all pickup routes.
func (c *Controller) Handlers() []gin.HandlerFunc {
	return c.middleware
}

// Register registers the pickup routes.
func (c *Controller) Register(rg *gin.RouterGroup) error {
	rg.POST("events", c.handleStartEvent)
	rg.GET("events/:event", c.handleGetStatus)
	rg.GET("events/:event/report", c.handleGetReport)
	rg.POST("events/:event/students/:student/respond", c.handleRespond)
	rg.POST("events/:event/students/:student/pickup", c.handleMarkPickedUp)
	return nil
}

type startEventRequest struct {
	ClassID         string    `json:"classId" binding:"required"`
	InitiatorID     string    `json:"initiatorId" binding:"required"`
	Reason          string    `json:"reason"`
	OriginalEndTime time.Time `json:"originalEndTime"`
	NewPickupTime   time.Time `json:"newPickupTime" binding:"required"`
}

type startEventResponse struct {
	Event   *PickupEvent  `json:"event"`
	Summary *StartSummary `json:"summary"`
}

func (c *Controller) handleStartEvent(ctx *gin.Context) {
	var req startEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apiresponses.RespondBadRequestWithDetails(ctx, "invalid start request", err.Error())
		return
	}
	event, summary, err := c.engine.StartEvent(ctx.Request.Context(), StartRequest{
		ClassID:         req.ClassID,
		InitiatorID:     req.InitiatorID,
		Reason:          req.Reason,
		OriginalEndTime: req.OriginalEndTime,
		NewPickupTime:   req.NewPickupTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			apiresponses.RespondNotFound(ctx, "class or teacher", req.ClassID)
		case errors.Is(err, ErrInvalidTransition):
			apiresponses.RespondUnprocessableEntity(ctx, err.Error())
		default:
			apiresponses.RespondInternalError(ctx, "starting pickup event", err, system.GetReqLogger(ctx, c.log))
		}
		return
	}
	apiresponses.RespondCreated(ctx, startEventResponse{Event: event, Summary: summary})
}

func (c *Controller) handleGetStatus(ctx *gin.Context) {
	eventID := ctx.Param("event")

	if data := c.cache.Get(ctx.Request.Context(), eventID); data != nil {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}

	event, err := c.engine.GetStatus(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			apiresponses.RespondNotFound(ctx, "pickup event", eventID)
			return
		}
		apiresponses.RespondInternalError(ctx, "loading pickup event", err, system.GetReqLogger(ctx, c.log))
		return
	}

	if data, err := json.Marshal(event); err == nil {
		c.cache.Set(ctx.Request.Context(), eventID, data)
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}
	apiresponses.RespondOK(ctx, event)
}

func (c *Controller) handleGetReport(ctx *gin.Context) {
	eventID := ctx.Param("event")
	event, err := c.engine.GetStatus(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			apiresponses.RespondNotFound(ctx, "pickup event", eventID)
			return
		}
		apiresponses.RespondInternalError(ctx, "loading pickup event", err, system.GetReqLogger(ctx, c.log))
		return
	}
	apiresponses.RespondOK(ctx, BuildReport(event, event.Escalations))
}

type respondRequest struct {
	GuardianID string `json:"guardianId" binding:"required"`
	AttemptID  string `json:"attemptId"`
	Accept     *bool  `json:"accept" binding:"required"`
}

func (c *Controller) handleRespond(ctx *gin.Context) {
	eventID := ctx.Param("event")
	studentID := ctx.Param("student")

	var req respondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apiresponses.RespondBadRequestWithDetails(ctx, "invalid response", err.Error())
		return
	}

	outcome, err := c.engine.Respond(ctx.Request.Context(), eventID, studentID, req.GuardianID, req.AttemptID, *req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			apiresponses.RespondNotFound(ctx, "escalation", studentID)
		case errors.Is(err, ErrInvalidTransition):
			apiresponses.RespondConflict(ctx, err.Error())
		case errors.Is(err, ErrVersionConflict):
			apiresponses.RespondConflict(ctx, "concurrent update, please retry")
		default:
			apiresponses.RespondInternalError(ctx, "applying guardian response", err, system.GetReqLogger(ctx, c.log))
		}
		return
	}
	c.cache.Invalidate(ctx.Request.Context(), eventID)
	apiresponses.RespondOK(ctx, outcome)
}

type pickedUpRequest struct {
	ActorID string `json:"actorId" binding:"required"`
}

func (c *Controller) handleMarkPickedUp(ctx *gin.Context) {
	eventID := ctx.Param("event")
	studentID := ctx.Param("student")

	var req pickedUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apiresponses.RespondBadRequestWithDetails(ctx, "invalid pickup confirmation", err.Error())
		return
	}

	esc, err := c.engine.MarkPickedUp(ctx.Request.Context(), eventID, studentID, req.ActorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			apiresponses.RespondNotFound(ctx, "escalation", studentID)
		case errors.Is(err, ErrInvalidTransition):
			apiresponses.RespondConflict(ctx, err.Error())
		default:
			apiresponses.RespondInternalError(ctx, "marking student picked up", err, system.GetReqLogger(ctx, c.log))
		}
		return
	}
	c.cache.Invalidate(ctx.Request.Context(), eventID)
	apiresponses.RespondOK(ctx, esc)
}
