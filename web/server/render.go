package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	PassSamples int    `json:"passSamples"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// CompleteUpdate is the final event of a streamed render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// prepareRender parses the request and builds its scene, writing an error response on failure
func (s *Server) prepareRender(w http.ResponseWriter, r *http.Request) (*RenderRequest, *scene.Scene, bool) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return nil, nil, false
	}
	format, err := output.FormatFromPath("render." + req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return nil, nil, false
	}
	req.Format = format

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return nil, nil, false
	}
	return req, sceneObj, true
}

// render runs a parallel render of the scene with the request's seed
func (s *Server) render(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	config := renderer.DefaultParallelConfig()
	config.Seed = req.Seed
	raytracer := renderer.NewParallelRaytracer(sceneObj, integrator.NewPathTracingIntegrator(), config, logger)
	return raytracer.Render(ctx)
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, ok := s.prepareRender(w, r)
	if !ok {
		return
	}

	startTime := time.Now()
	img, stats, err := s.render(r.Context(), req, sceneObj, &serverLogger{})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("Render of %s cancelled by client", req.Scene)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", output.ContentType(req.Format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(time.Since(startTime).Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders a scene progressively, streaming log lines and
// an image after every pass as SSE, then a final complete event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, ok := s.prepareRender(w, r)
	if !ok {
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()
	consoleChan, logger := s.setupConsoleLogging()

	config := renderer.DefaultProgressiveConfig()
	config.Seed = req.Seed
	raytracer := renderer.NewProgressiveRaytracer(sceneObj, integrator.NewPathTracingIntegrator(), config, logger)

	// Pass results are handed to this goroutine so only it writes to w
	passChan := make(chan renderer.PassResult)
	done := make(chan error, 1)
	startTime := time.Now()
	go func() {
		done <- raytracer.RenderProgressive(ctx, func(result renderer.PassResult) error {
			select {
			case passChan <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	var last renderer.PassResult
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)

		case result := <-passChan:
			last = result
			if err := s.sendPassUpdate(w, result, startTime); err != nil {
				s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
			}

		case err := <-done:
			// Flush messages logged just before the render finished
			for drained := false; !drained; {
				select {
				case msg := <-consoleChan:
					s.sendConsoleMessage(w, msg)
				default:
					drained = true
				}
			}

			if err != nil {
				if ctx.Err() == nil {
					s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
				}
				return
			}

			imageData, err := s.imageToBase64PNG(last.Image)
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
				return
			}
			data, err := json.Marshal(CompleteUpdate{
				ImageData: imageData,
				Stats:     newStats(last.Stats),
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
			if err != nil {
				s.sendSSEError(w, err.Error())
				return
			}
			s.sendSSEEvent(w, "complete", string(data))
			return
		}
	}
}

// sendPassUpdate sends the image and stats of a finished pass as a progress event
func (s *Server) sendPassUpdate(w http.ResponseWriter, result renderer.PassResult, startTime time.Time) error {
	imageData, err := s.imageToBase64PNG(result.Image)
	if err != nil {
		return err
	}
	data, err := json.Marshal(ProgressUpdate{
		PassNumber:  result.PassNumber,
		TotalPasses: result.TotalPasses,
		PassSamples: result.PassSamples,
		ImageData:   imageData,
		Stats:       newStats(result.Stats),
		IsComplete:  result.IsLast,
		ElapsedMs:   time.Since(startTime).Milliseconds(),
	})
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// sendConsoleMessage forwards a log line to the client
func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, "png"); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
