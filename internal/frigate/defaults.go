package frigate

// Default returns a fresh configuration matching the form defaults: MQTT
// disabled, a single detector at index 0, the generic YOLO model at its first
// allowed resolution, no ffmpeg block, and no cameras.
func Default() *Config {
	return &Config{
		MQTT:      MqttConfig{Enabled: false},
		Detectors: GenerateDetectors(1),
		Model:     DefaultModel(ModelYoloGeneric),
		Version:   SchemaVersion,
	}
}

// DefaultCamera returns a camera pre-filled with the form defaults, used both
// for new cameras and as the base when decoding sparse documents.
func DefaultCamera(name string) Camera {
	return Camera{
		Name: name,
		Detect: DetectSettings{
			Width:   1920,
			Height:  1080,
			FPS:     20,
			Enabled: true,
		},
		Objects: ObjectsSettings{
			Track: []string{"person", "car", "dog"},
		},
		Snapshots: SnapshotSettings{
			Enabled:     false,
			BoundingBox: true,
			Retain:      SnapshotRetain{Default: 1},
		},
	}
}

// DefaultDocument is the commented skeleton written when the user exits
// without ever saving a configuration.
const DefaultDocument = `mqtt:
  enabled: false  # Set this to true if using MQTT for event triggers

detectors:
  memx0:
    type: memryx
    device: PCIe:0
  # memx1:
  #   type: memryx
  #   device: PCIe:1   # Add more devices if available

model:
  model_type: yolo-generic   # Options: yolo-generic, yolonas, yolox, ssd
  width: 320
  height: 320
  input_tensor: nchw
  input_dtype: float
  # path: /config/yolo.zip   # Model is normally fetched via runtime
  labelmap_path: /labelmap/coco-80.txt

cameras:
  cam1:
    ffmpeg:
      inputs:
        - path: rtsp://<username>:<password>@<ip>:<port>/...
          roles:
            - detect
            - record
    detect:
      width: 1920
      height: 1080
      fps: 20
      enabled: true
    objects:
      track:
        - person
        - car
        - dog
    snapshots:
      enabled: false
      bounding_box: true
      retain:
        default: 1
    record:
      enabled: false
      alerts:
        retain:
          days: 1
      detections:
        retain:
          days: 1

version: 0.17-0
`
