package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Anwitht21/book-extraction/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Classifier  string `yaml:"classifier"`
	Provider    string `yaml:"provider,omitempty"`
	Model       string `yaml:"model,omitempty"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalSummary represents the aggregate metrics section of the eval YAML
type EvalSummary struct {
	TotalRecords   int     `yaml:"totalrecords"`
	Scored         int     `yaml:"scored"`
	Failed         int     `yaml:"failed"`
	Accuracy       float64 `yaml:"accuracy"`
	Precision      float64 `yaml:"precision"`
	Recall         float64 `yaml:"recall"`
	F1             float64 `yaml:"f1"`
	TruePositives  int     `yaml:"truepositives"`
	TrueNegatives  int     `yaml:"truenegatives"`
	FalsePositives int     `yaml:"falsepositives"`
	FalseNegatives int     `yaml:"falsenegatives"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier string `yaml:"identifier"`
	Title      string `yaml:"title"`
	Label      bool   `yaml:"label"`
	Predicted  bool   `yaml:"predicted"`
	Correct    bool   `yaml:"correct"`
	Error      string `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a timestamped YAML file in the
// evals/ directory and returns the path written.
func SaveToYAML(cfg EvalConfig, summary metrics.Summary, predictions []metrics.Prediction) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	spec := EvalSpec{
		Config: cfg,
		Summary: EvalSummary{
			TotalRecords:   summary.TotalRecords,
			Scored:         summary.Scored,
			Failed:         summary.Failed,
			Accuracy:       summary.Accuracy,
			Precision:      summary.Precision,
			Recall:         summary.Recall,
			F1:             summary.F1,
			TruePositives:  summary.Confusion.TruePositives,
			TrueNegatives:  summary.Confusion.TrueNegatives,
			FalsePositives: summary.Confusion.FalsePositives,
			FalseNegatives: summary.Confusion.FalseNegatives,
		},
		Results: make([]EvalResult, 0, len(predictions)),
	}

	for _, p := range predictions {
		spec.Results = append(spec.Results, EvalResult{
			Identifier: p.ID,
			Title:      p.Title,
			Label:      p.Label,
			Predicted:  p.Predicted,
			Correct:    p.Correct(),
			Error:      p.Error,
		})
	}

	filename := fmt.Sprintf("evals/%s-%s.yaml", cfg.Classifier, cfg.Timestamp)

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, nil
	}

	return absPath, nil
}
