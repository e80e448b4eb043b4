package metrics

import "fmt"

// Prediction pairs a ground truth fiction label with a classifier's output.
type Prediction struct {
	ID        string
	Title     string
	Label     bool
	Predicted bool
	Error     string // If classification failed
}

// Correct reports whether the prediction matched the label.
func (p Prediction) Correct() bool {
	return p.Error == "" && p.Predicted == p.Label
}

// ConfusionMatrix counts binary classification outcomes. Fiction is the
// positive class.
type ConfusionMatrix struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// Total returns the number of scored predictions.
func (c ConfusionMatrix) Total() int {
	return c.TruePositives + c.TrueNegatives + c.FalsePositives + c.FalseNegatives
}

// Accuracy is the fraction of predictions that matched the label.
func (c ConfusionMatrix) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TruePositives+c.TrueNegatives) / float64(total)
}

// Precision is the fraction of fiction predictions that were fiction.
func (c ConfusionMatrix) Precision() float64 {
	denom := c.TruePositives + c.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(denom)
}

// Recall is the fraction of fiction books predicted as fiction.
func (c ConfusionMatrix) Recall() float64 {
	denom := c.TruePositives + c.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(denom)
}

// F1 is the harmonic mean of precision and recall.
func (c ConfusionMatrix) F1() float64 {
	p := c.Precision()
	r := c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Summary aggregates a full evaluation run.
type Summary struct {
	TotalRecords int
	Scored       int
	Failed       int
	Accuracy     float64
	Precision    float64
	Recall       float64
	F1           float64
	Confusion    ConfusionMatrix
}

// Summarize computes aggregate metrics over a set of predictions.
// Predictions that carry an error are counted as failed and excluded
// from the scores.
func Summarize(predictions []Prediction) Summary {
	summary := Summary{
		TotalRecords: len(predictions),
	}

	for _, p := range predictions {
		if p.Error != "" {
			summary.Failed++
			continue
		}
		summary.Scored++
		switch {
		case p.Label && p.Predicted:
			summary.Confusion.TruePositives++
		case !p.Label && !p.Predicted:
			summary.Confusion.TrueNegatives++
		case !p.Label && p.Predicted:
			summary.Confusion.FalsePositives++
		default:
			summary.Confusion.FalseNegatives++
		}
	}

	summary.Accuracy = summary.Confusion.Accuracy()
	summary.Precision = summary.Confusion.Precision()
	summary.Recall = summary.Confusion.Recall()
	summary.F1 = summary.Confusion.F1()

	return summary
}

// String renders the summary as a human readable report block.
func (s Summary) String() string {
	return fmt.Sprintf(`========================================
Classification Summary
========================================
Total Records:      %d
Scored:             %d
Failed:             %d

Accuracy:           %.2f%%
Precision:          %.2f%%
Recall:             %.2f%%
F1:                 %.2f%%

True Positives:     %d
True Negatives:     %d
False Positives:    %d
False Negatives:    %d
========================================`,
		s.TotalRecords, s.Scored, s.Failed,
		s.Accuracy*100, s.Precision*100, s.Recall*100, s.F1*100,
		s.Confusion.TruePositives, s.Confusion.TrueNegatives,
		s.Confusion.FalsePositives, s.Confusion.FalseNegatives)
}
