package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Anwitht21/book-extraction/internal/classify"
	"github.com/Anwitht21/book-extraction/internal/eval/dataset"
	"github.com/Anwitht21/book-extraction/internal/eval/metrics"
	"github.com/Anwitht21/book-extraction/internal/eval/results"
	"github.com/Anwitht21/book-extraction/internal/vision"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command for evaluating fiction classifiers
// against a labeled dataset.
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var classifier string
	var sampleSize int
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a fiction classifier against a labeled dataset",
		Long: `Run a fiction/non-fiction classifier over a labeled dataset and report
accuracy, precision, recall and F1. Results are written to a timestamped
YAML file under evals/.

Two classifiers are available:

  heuristic  keyword matching over categories, main category, description
             and title (no network access required)
  model      the configured vision provider's text classification, driven
             by the VISION_PROVIDER and VISION_MODEL environment variables`,
		Example: `  # Evaluate the metadata heuristic on 100 records
  bookscan eval run --dataset books.parquet --sample 100

  # Evaluate the LLM classifier with 4 concurrent requests
  bookscan eval run --dataset books.jsonl --classifier model --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			return executeRun(cmd.Context(), datasetPath, classifier, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to labeled dataset (.parquet or .jsonl)")
	cmd.Flags().StringVar(&classifier, "classifier", "heuristic", "Classifier to evaluate (heuristic or model)")
	cmd.Flags().IntVar(&sampleSize, "sample", -1, "Number of records to evaluate (-1 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Concurrent classifications (model classifier only)")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func executeRun(ctx context.Context, datasetPath, classifier string, sampleSize, concurrency int) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "classifier", classifier, "sample", sampleSize)

	loader := dataset.NewLoader(datasetPath)
	records, err := loader.LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "records", len(records))

	cfg := results.EvalConfig{
		Classifier:  classifier,
		DatasetPath: datasetPath,
		SampleSize:  sampleSize,
	}

	var predictions []metrics.Prediction
	switch classifier {
	case "heuristic":
		predictions = runHeuristic(records)
	case "model":
		visionService, err := vision.NewService()
		if err != nil {
			return fmt.Errorf("failed to create vision service: %w", err)
		}
		cfg.Provider = visionService.Provider().Name()
		cfg.Model = visionService.Model()
		predictions = runModel(ctx, visionService, records, concurrency)
	default:
		return fmt.Errorf("unknown classifier: %s (expected heuristic or model)", classifier)
	}

	summary := metrics.Summarize(predictions)

	path, err := results.SaveToYAML(cfg, summary, predictions)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Println(summary.String())
	fmt.Printf("\nResults saved to: %s\n", path)

	return nil
}

// runHeuristic scores the metadata keyword classifier. It is a pure
// function of the record so no concurrency is needed.
func runHeuristic(records []dataset.LabeledRecord) []metrics.Prediction {
	predictions := make([]metrics.Prediction, 0, len(records))
	for _, record := range records {
		predicted := classify.IsFiction(classify.Signals{
			Categories:   record.Categories,
			MainCategory: record.MainCategory,
			Description:  record.Description,
			Title:        record.Title,
		})
		predictions = append(predictions, metrics.Prediction{
			ID:        record.ID,
			Title:     record.Title,
			Label:     record.IsFiction,
			Predicted: predicted,
		})
	}
	return predictions
}

// runModel scores the vision provider's text classifier with bounded
// concurrency.
func runModel(ctx context.Context, visionService *vision.Service, records []dataset.LabeledRecord, concurrency int) []metrics.Prediction {
	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	predictionsChan := make(chan metrics.Prediction, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.LabeledRecord) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Classifying record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))

			prediction := metrics.Prediction{
				ID:    record.ID,
				Title: record.Title,
				Label: record.IsFiction,
			}

			if err := ctx.Err(); err != nil {
				prediction.Error = err.Error()
			} else {
				// Labeled datasets carry metadata only, so the model
				// classifies from text alone here.
				classification := visionService.ClassifyBook(ctx, "", record.Title, record.Author)
				prediction.Predicted = classification.IsFiction
			}

			predictionsChan <- prediction
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(predictionsChan)
	}()

	var predictions []metrics.Prediction
	for prediction := range predictionsChan {
		predictions = append(predictions, prediction)
	}

	return predictions
}
