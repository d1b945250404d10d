package driven

// Normaliser turns extracted text into its stored form.
// Normalise must be pure, total and idempotent.
type Normaliser interface {
	Normalise(text string) string
}
