package model

// Classifier is a binary classifier over feature rows.
type Classifier interface {
	PredictProba(X [][]float64) ([]float64, error) // returns p(y=1) per row
	Predict(X [][]float64) ([]int, error)
}
