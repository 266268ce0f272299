package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by New
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type builtinScene struct {
	info  SceneInfo
	build func(cameraOverrides ...renderer.CameraConfig) *Scene
}

// ErrUnknownScene is returned by New for a name with no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

var builtinScenes = map[string]builtinScene{
	"default": {
		info:  SceneInfo{ID: "default", DisplayName: "Default", Description: "Diffuse, brushed and rough metal spheres on a ground sphere"},
		build: NewDefaultScene,
	},
	"single": {
		info:  SceneInfo{ID: "single", DisplayName: "Single Sphere", Description: "One diffuse sphere on a diffuse ground"},
		build: NewSingleSphereScene,
	},
	"mirror": {
		info:  SceneInfo{ID: "mirror", DisplayName: "Mirrors", Description: "A diffuse sphere between two perfect mirrors"},
		build: NewMirrorScene,
	},
}

// New builds the named built-in scene with optional camera overrides
func New(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	builtin, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScene, name, Names())
	}
	if len(cameraOverrides) > 0 {
		merged := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), cameraOverrides[0])
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("scene %q: %w", name, err)
		}
	}
	return builtin.build(cameraOverrides...), nil
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for every built-in scene, sorted by ID
func ListScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtinScenes))
	for _, name := range Names() {
		infos = append(infos, builtinScenes[name].info)
	}
	return infos
}
