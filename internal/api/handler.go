package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealspread/internal/detect"
	"mealspread/internal/planner"
	"mealspread/internal/recipe"
)

// UploadMatches is how many provider recipes an upload asks for.
const UploadMatches = 10

// Planner produces weekly plans.
type Planner interface {
	Generate(ctx context.Context, raw string) planner.Result
}

// RecipeFinder matches ingredients against the upload recipe provider.
type RecipeFinder interface {
	FindByIngredients(ctx context.Context, ingredients []string, number int) ([]recipe.ProviderRecipeRecord, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Planner  Planner
	Detector detect.Detector
	Finder   RecipeFinder
	Store    recipe.Store
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewHandler creates a new Handler. finder and store may be nil: without a
// finder uploads are rejected, without a store detections are not cached.
func NewHandler(p Planner, detector detect.Detector, finder RecipeFinder, store recipe.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Planner:  p,
		Detector: detector,
		Finder:   finder,
		Store:    store,
		Timeout:  45 * time.Second,
		Logger:   logger,
	}
}

type generateRequest struct {
	Ingredients string `json:"ingredients"`
}

type uploadResponse struct {
	Ingredients []string                      `json:"ingredients"`
	Recipes     []recipe.ProviderRecipeRecord `json:"recipes"`
}

// Generate plans a week from a comma-separated ingredient list. It always
// answers 200; an unreadable body counts as no ingredients.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Info("unreadable generate body, treating as empty", zap.Error(err))
		req.Ingredients = ""
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	c.JSON(http.StatusOK, h.Planner.Generate(ctx, req.Ingredients))
}

// Upload detects ingredients in an image and finds recipes that use them.
func (h *Handler) Upload(c *gin.Context) {
	if h.Finder == nil {
		c.String(http.StatusServiceUnavailable, "Image uploads are disabled: no recipe provider is configured.")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		c.String(http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("open file err: %s", err.Error()))
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("read image err: %s", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	ingredients, err := h.detectIngredients(ctx, imageData)
	if err != nil {
		if errors.Is(err, detect.ErrUnsupportedImage) {
			c.String(http.StatusBadRequest, "Could not read the image. Only JPEG and PNG images are supported.")
			return
		}
		h.Logger.Error("ingredient detection failed", zap.Error(err))
		c.String(http.StatusInternalServerError, fmt.Sprintf("detect err: %s", err.Error()))
		return
	}

	recipes, err := h.Finder.FindByIngredients(ctx, ingredients, UploadMatches)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusGatewayTimeout, "Recipe provider timed out")
			return
		}
		h.Logger.Error("recipe provider failed", zap.Strings("ingredients", ingredients), zap.Error(err))
		c.String(http.StatusBadGateway, fmt.Sprintf("recipe provider err: %s", err.Error()))
		return
	}

	c.JSON(http.StatusOK, uploadResponse{Ingredients: ingredients, Recipes: recipes})
}

// detectIngredients returns the cached detection for the image when there is
// one, and otherwise runs the detector and caches its answer.
func (h *Handler) detectIngredients(ctx context.Context, imageData []byte) ([]string, error) {
	imageHash := detect.ImageHash(imageData)

	if h.Store != nil {
		cached, err := h.Store.GetDetectedIngredients(ctx, imageHash)
		if err != nil {
			h.Logger.Warn("detection cache lookup failed", zap.String("image_hash", imageHash), zap.Error(err))
		} else if cached != nil {
			h.Logger.Debug("detection cache hit", zap.String("image_hash", imageHash))
			return cached, nil
		}
	}

	img, err := detect.Normalize(imageData)
	if err != nil {
		return nil, err
	}

	ingredients, err := h.Detector.Detect(ctx, img)
	if err != nil {
		return nil, err
	}

	if h.Store != nil {
		if err := h.Store.SaveDetectedIngredients(ctx, imageHash, ingredients); err != nil {
			h.Logger.Warn("failed to save detected ingredients", zap.String("image_hash", imageHash), zap.Error(err))
		}
	}
	return ingredients, nil
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
