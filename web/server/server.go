package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Server handles web requests for the sphere raytracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  `json:"scene"`       // Scene name (e.g., "default")
	Width       int     `json:"width"`       // Image width
	AspectRatio float64 `json:"aspectRatio"` // Width / height, 0 keeps the scene default
	Samples     int     `json:"samples"`     // Samples per pixel
	MaxDepth    int     `json:"maxDepth"`    // Maximum bounces per path
	Seed        int64   `json:"seed"`
	Format      string  `json:"format"` // Output encoding: png, bmp, tiff or ppm
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	Tiles           int     `json:"tiles"`
	Workers         int     `json:"workers"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		AverageSamples:  stats.AverageSamples,
		SamplesPerPixel: stats.SamplesPerPixel,
		Tiles:           stats.Tiles,
		Workers:         stats.Workers,
	}
}

// Request limits shared by parsing and /api/scene-config
const (
	minWidth, maxWidth     = 1, 2000
	minSamples, maxSamples = 1, 10000
	minDepth, maxDepth     = 1, 1000
	defaultSamples         = 10
)

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.New(sceneName)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.GetSamplingConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"aspectRatio":     sceneObj.CameraConfig.AspectRatio,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minWidth, "max": maxWidth},
			"samples": map[string]int{"min": minSamples, "max": maxSamples},
			"depth":   map[string]int{"min": minDepth, "max": maxDepth},
		},
		"formats": output.Formats,
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: "png"}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}
	if format := query.Get("format"); format != "" {
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.AspectRatio, err = parseFloatParam(query, "aspect", 0, 0.1, 10); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", defaultSamples, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 50, minDepth, maxDepth); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	} else {
		req.Seed = renderer.DefaultParallelConfig().Seed
	}

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene with the request's camera and sampling overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.New(req.Scene, renderer.CameraConfig{
		Width:       req.Width,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		return nil, err
	}
	sceneObj.SetSampling(req.Samples, req.MaxDepth)
	return sceneObj, nil
}

// sceneErrorStatus maps a scene construction error to an HTTP status:
// 404 for an unknown scene name, 400 for anything else the request got wrong
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
