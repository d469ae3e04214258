package serve

import (
	"net/http"

	"densenet/nn"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type predictRequest struct {
	Features []float64 `json:"features" binding:"required"`
}

type trainRequest struct {
	Features []float64 `json:"features" binding:"required"`
	Label    *int      `json:"label" binding:"required"`
}

// NewRouter registers the HTTP API for g on a fresh gin engine.
func NewRouter(g *Guarded, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/status", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, g.Status())
	})
	router.GET("/state", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, g.Snapshot())
	})
	router.POST("/predict", func(ctx *gin.Context) {
		var req predictRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, features required"})
			return
		}
		p, err := g.Predict(req.Features)
		if err != nil {
			ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, p)
	})
	router.POST("/train", func(ctx *gin.Context) {
		var req trainRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, features and label required"})
			return
		}
		p, err := g.Train(req.Features, *req.Label)
		if err != nil {
			ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, p)
	})
	return router
}

func statusFor(err error) int {
	if errors.Is(err, nn.ErrDimensionMismatch) || errors.Is(err, nn.ErrLabelOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
