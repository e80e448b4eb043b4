package dataset

// LabeledRecord is one row of a fiction classification dataset. The
// metadata fields mirror what a Google Books volume carries, plus the
// ground truth label.
type LabeledRecord struct {
	ID           string   `json:"id" parquet:"id"`
	Title        string   `json:"title" parquet:"title"`
	Author       string   `json:"author" parquet:"author"`
	Categories   []string `json:"categories" parquet:"categories,list"`
	MainCategory string   `json:"main_category" parquet:"main_category"`
	Description  string   `json:"description" parquet:"description"`
	ISBN         string   `json:"isbn" parquet:"isbn"`
	IsFiction    bool     `json:"is_fiction" parquet:"is_fiction"`
}

// DisplayName returns "Title by Author" for logs and reports.
func (r *LabeledRecord) DisplayName() string {
	if r.Author == "" {
		return r.Title
	}
	return r.Title + " by " + r.Author
}
