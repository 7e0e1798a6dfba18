package frigate

import "testing"

func TestNormalizeFallsBackToAllowedResolution(t *testing.T) {
	cases := []struct {
		name       string
		model      ModelConfig
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "ssd rejects 640",
			model:      ModelConfig{ModelType: ModelSSD, Width: 640, Height: 640},
			wantWidth:  320,
			wantHeight: 320,
		},
		{
			name:       "yolox rejects 320",
			model:      ModelConfig{ModelType: ModelYoloX, Width: 320, Height: 320},
			wantWidth:  640,
			wantHeight: 640,
		},
		{
			name:       "yolo-generic keeps 640",
			model:      ModelConfig{ModelType: ModelYoloGeneric, Width: 640, Height: 640},
			wantWidth:  640,
			wantHeight: 640,
		},
		{
			name:       "mismatched pair falls back",
			model:      ModelConfig{ModelType: ModelYoloNAS, Width: 320, Height: 640},
			wantWidth:  320,
			wantHeight: 320,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.model.Normalize()
			if tc.model.Width != tc.wantWidth || tc.model.Height != tc.wantHeight {
				t.Errorf("resolution = %dx%d, want %dx%d",
					tc.model.Width, tc.model.Height, tc.wantWidth, tc.wantHeight)
			}
		})
	}
}

func TestCustomModelPathBypassesAllowList(t *testing.T) {
	model := ModelConfig{
		ModelType: ModelSSD,
		Width:     416,
		Height:    416,
		Path:      "/config/custom.zip",
	}
	model.Normalize()
	if model.Width != 416 || model.Height != 416 {
		t.Fatalf("custom resolution was altered: %dx%d", model.Width, model.Height)
	}
	if err := model.Validate(); err != nil {
		t.Fatalf("custom model should validate: %v", err)
	}
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	model := DefaultModel(ModelYoloGeneric)
	model.ModelType = "resnet"
	if err := model.Validate(); err == nil {
		t.Error("expected failure for unknown model type")
	}

	model = DefaultModel(ModelYoloGeneric)
	model.InputTensor = "chwn"
	if err := model.Validate(); err == nil {
		t.Error("expected failure for unknown input tensor")
	}

	model = DefaultModel(ModelYoloGeneric)
	model.InputDType = "double"
	if err := model.Validate(); err == nil {
		t.Error("expected failure for unknown input dtype")
	}
}

func TestDefaultModelPerType(t *testing.T) {
	yolox := DefaultModel(ModelYoloX)
	if yolox.InputDType != "float_denorm" {
		t.Errorf("yolox dtype = %q, want float_denorm", yolox.InputDType)
	}
	if yolox.Width != 640 || yolox.Height != 640 {
		t.Errorf("yolox resolution = %dx%d, want 640x640", yolox.Width, yolox.Height)
	}

	ssd := DefaultModel(ModelSSD)
	if ssd.Width != 320 || ssd.Height != 320 {
		t.Errorf("ssd resolution = %dx%d, want 320x320", ssd.Width, ssd.Height)
	}
	if ssd.LabelmapPath != DefaultLabelmapPath {
		t.Errorf("labelmap = %q", ssd.LabelmapPath)
	}
}

func TestGenerateDetectors(t *testing.T) {
	detectors := GenerateDetectors(3)
	if len(detectors) != 3 {
		t.Fatalf("len = %d, want 3", len(detectors))
	}
	if detectors[2].Name != "memx2" || detectors[2].Device != "PCIe:2" {
		t.Errorf("third detector = %+v", detectors[2])
	}
	for _, det := range detectors {
		if det.Type != DetectorType {
			t.Errorf("detector %s type = %q", det.Name, det.Type)
		}
	}

	if got := GenerateDetectors(0); len(got) != 1 || got[0].Name != "memx0" {
		t.Errorf("zero devices should still produce memx0, got %+v", got)
	}
}
