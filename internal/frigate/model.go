package frigate

import "fmt"

// ModelType identifies the detection model family.
type ModelType string

const (
	ModelYoloGeneric ModelType = "yolo-generic"
	ModelYoloNAS     ModelType = "yolonas"
	ModelYoloX       ModelType = "yolox"
	ModelSSD         ModelType = "ssd"
)

// ModelTypes lists the accepted model types in menu order.
var ModelTypes = []ModelType{ModelYoloGeneric, ModelYoloNAS, ModelYoloX, ModelSSD}

// Resolution is a width/height pair.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// allowedResolutions maps each model type to its accepted input resolutions.
// The first entry is the fallback used when a requested pair is not allowed.
var allowedResolutions = map[ModelType][]Resolution{
	ModelYoloGeneric: {{320, 320}, {640, 640}},
	ModelYoloNAS:     {{320, 320}, {640, 640}},
	ModelYoloX:       {{640, 640}},
	ModelSSD:         {{320, 320}},
}

type modelDefaults struct {
	Tensor string
	DType  string
	Path   string
}

var modelTypeDefaults = map[ModelType]modelDefaults{
	ModelYoloGeneric: {Tensor: "nchw", DType: "float", Path: "/config/yolo.zip"},
	ModelYoloNAS:     {Tensor: "nchw", DType: "float", Path: "/config/yolonas_320.zip"},
	ModelYoloX:       {Tensor: "nchw", DType: "float_denorm", Path: "/config/yolox.zip"},
	ModelSSD:         {Tensor: "nchw", DType: "float", Path: "/config/ssd.zip"},
}

// InputTensors enumerates the accepted input tensor layouts.
var InputTensors = []string{"nchw", "nhwc", "hwnc", "hwcn"}

// InputDTypes enumerates the accepted input data types.
var InputDTypes = []string{"float", "float_denorm", "int"}

// DefaultLabelmapPath is the labelmap shipped with the container image.
const DefaultLabelmapPath = "/labelmap/coco-80.txt"

// ModelConfig is the model block of the document.
type ModelConfig struct {
	ModelType    ModelType `yaml:"model_type"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	InputTensor  string    `yaml:"input_tensor"`
	InputDType   string    `yaml:"input_dtype"`
	LabelmapPath string    `yaml:"labelmap_path"`
	// Path is set only in custom-model mode; the runtime fetches the model
	// when it is absent.
	Path string `yaml:"path,omitempty"`
}

// CustomMode reports whether a local model path overrides the resolution
// allow-list.
func (m ModelConfig) CustomMode() bool {
	return m.Path != ""
}

// AllowedResolutions returns the accepted resolutions for a model type. An
// unknown type falls back to 320x320 only.
func AllowedResolutions(t ModelType) []Resolution {
	if res, ok := allowedResolutions[t]; ok {
		return res
	}
	return []Resolution{{320, 320}}
}

// DefaultModel returns the model block pre-filled with the per-type defaults
// from the setup forms, in preset (non-custom) mode.
func DefaultModel(t ModelType) ModelConfig {
	defaults, ok := modelTypeDefaults[t]
	if !ok {
		defaults = modelTypeDefaults[ModelYoloGeneric]
		t = ModelYoloGeneric
	}
	first := AllowedResolutions(t)[0]
	return ModelConfig{
		ModelType:    t,
		Width:        first.Width,
		Height:       first.Height,
		InputTensor:  defaults.Tensor,
		InputDType:   defaults.DType,
		LabelmapPath: DefaultLabelmapPath,
	}
}

// DefaultModelPath returns the custom-mode path suggestion for a model type.
func DefaultModelPath(t ModelType) string {
	if defaults, ok := modelTypeDefaults[t]; ok {
		return defaults.Path
	}
	return modelTypeDefaults[ModelYoloGeneric].Path
}

// resolutionAllowed reports whether the pair is on the model type's list.
func resolutionAllowed(t ModelType, width, height int) bool {
	for _, res := range AllowedResolutions(t) {
		if res.Width == width && res.Height == height {
			return true
		}
	}
	return false
}

// Normalize applies the resolution rules in place. In preset mode a pair not
// on the allow-list falls back to the model type's first allowed resolution.
// Custom-path mode bypasses the allow-list; non-positive custom dimensions
// fall back to 320.
func (m *ModelConfig) Normalize() {
	if m.ModelType == "" {
		m.ModelType = ModelYoloGeneric
	}
	if m.InputTensor == "" {
		m.InputTensor = "nchw"
	}
	if m.InputDType == "" {
		m.InputDType = "float"
	}
	if m.LabelmapPath == "" {
		m.LabelmapPath = DefaultLabelmapPath
	}
	if m.CustomMode() {
		if m.Width <= 0 {
			m.Width = 320
		}
		if m.Height <= 0 {
			m.Height = 320
		}
		return
	}
	if !resolutionAllowed(m.ModelType, m.Width, m.Height) {
		first := AllowedResolutions(m.ModelType)[0]
		m.Width = first.Width
		m.Height = first.Height
	}
}

// Validate checks the enumerated fields.
func (m *ModelConfig) Validate() error {
	valid := false
	for _, t := range ModelTypes {
		if m.ModelType == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown model type %q", m.ModelType)
	}
	if !contains(InputTensors, m.InputTensor) {
		return fmt.Errorf("unknown input tensor layout %q", m.InputTensor)
	}
	if !contains(InputDTypes, m.InputDType) {
		return fmt.Errorf("unknown input dtype %q", m.InputDType)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("model resolution must be positive, got %dx%d", m.Width, m.Height)
	}
	if !m.CustomMode() && !resolutionAllowed(m.ModelType, m.Width, m.Height) {
		return fmt.Errorf("resolution %dx%d is not allowed for model type %s", m.Width, m.Height, m.ModelType)
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
