package worldhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"worldrelay/internal/services/worlds"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

var seedRangeMsg = fmt.Sprintf("seed must be an integer between 0 and %d", worlds.MaxSeed)

type Handler struct {
	svc worlds.IWorldRegistry
}

func New(svc worlds.IWorldRegistry) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/worlds", h.list)
	r.GET("/worlds/:name", h.info)
	r.POST("/worlds", h.register)
	r.DELETE("/worlds/:name", h.delete)
}

// @Summary		List worlds
// @Description	Returns every registered world in registration order.
// @Tags			Worlds
// @Success		200	{array}		worlds.World
// @Failure		500	{object}	ErrorResponse
// @Router			/worlds [get]
func (h *Handler) list(c *gin.Context) {
	out, err := h.svc.List()
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get a world seed
// @Description	Returns the seed registered under a world name.
// @Tags			Worlds
// @Param			name	path		string	true	"World name"	default(Acres)
// @Success		200		{object}	WorldResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/worlds/{name} [get]
func (h *Handler) info(c *gin.Context) {
	name := c.Param("name")
	seed, err := h.svc.GetSeed(name)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: messageFor(err)})
		return
	}
	c.JSON(http.StatusOK, WorldResponse{WorldName: name, Seed: seed})
}

// @Summary		Register a world
// @Description	Binds a world name to a seed, replacing any previous seed.
// @Tags			Worlds
// @Param			body	body		RegisterWorldBody	true	"World payload"
// @Success		200		{object}	RegisterWorldResponse
// @Failure		400		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/worlds [post]
func (h *Handler) register(ginCtx *gin.Context) {
	var body RegisterWorldBody
	if err := ginCtx.ShouldBindJSON(&body); err != nil {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: bindMessage(err)})
		return
	}

	seed, ok := parseSeed(body.Seed)
	if !ok {
		ginCtx.JSON(http.StatusBadRequest, &ErrorResponse{Error: seedRangeMsg})
		return
	}

	if err := h.svc.Register(body.WorldName, seed); err != nil {
		ginCtx.JSON(statusFor(err), &ErrorResponse{Error: messageFor(err)})
		return
	}
	ginCtx.JSON(http.StatusOK, RegisterWorldResponse{
		Success:   true,
		WorldName: body.WorldName,
		Seed:      seed,
	})
}

// @Summary		Delete a world
// @Description	Removes a world binding.
// @Tags			Worlds
// @Param			name	path		string	true	"World name"	default(Acres)
// @Success		200		{object}	DeleteWorldResponse
// @Failure		404		{object}	ErrorResponse
// @Failure		500		{object}	ErrorResponse
// @Router			/worlds/{name} [delete]
func (h *Handler) delete(ginCtx *gin.Context) {
	name := ginCtx.Param("name")
	removed, err := h.svc.Delete(name)
	if err != nil {
		ginCtx.JSON(statusFor(err), &ErrorResponse{Error: messageFor(err)})
		return
	}
	if !removed {
		ginCtx.JSON(http.StatusNotFound, &ErrorResponse{Error: "World not found"})
		return
	}
	ginCtx.JSON(http.StatusOK, DeleteWorldResponse{Success: true, WorldName: name})
}

// parseSeed accepts any JSON number with an integral value. Integers go to
// the registry as-is so range errors keep its wording; other notations must
// already be within [0, MaxSeed].
func parseSeed(raw json.RawMessage) (int64, bool) {
	res := gjson.ParseBytes(raw)
	if res.Type != gjson.Number {
		return 0, false
	}
	if n, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
		return n, true
	}
	f := res.Num
	if f != math.Trunc(f) || f < 0 || f > worlds.MaxSeed {
		return 0, false
	}
	return int64(f), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, worlds.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, worlds.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if errors.Is(err, worlds.ErrNotFound) {
		return "World not found"
	}
	return err.Error()
}

// bindMessage turns decoder/binding failures into the same wording the
// registry uses for its own validation.
func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "worldName must be a non-empty string"
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return seedRangeMsg
	}
	return "invalid request body: " + err.Error()
}
