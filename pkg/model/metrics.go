package model

import (
	"fmt"
	"strings"
)

// BinaryPredFromProba labels a probability 1 when it is strictly above threshold.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = 1
		}
	}
	return out
}

// Labels converts 0/1 float labels to ints.
func Labels(y []float64) []int {
	out := make([]int, len(y))
	for i, v := range y {
		out[i] = int(v)
	}
	return out
}

// Accuracy is the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix counts binary outcomes: rows are actual, columns predicted.
type ConfusionMatrix [2][2]int

func NewConfusionMatrix(yTrue, yPred []int) ConfusionMatrix {
	var cm ConfusionMatrix
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}
	return cm
}

func (cm ConfusionMatrix) TN() int { return cm[0][0] }
func (cm ConfusionMatrix) FP() int { return cm[0][1] }
func (cm ConfusionMatrix) FN() int { return cm[1][0] }
func (cm ConfusionMatrix) TP() int { return cm[1][1] }

func (cm ConfusionMatrix) Total() int { return cm.TN() + cm.FP() + cm.FN() + cm.TP() }

// ClassMetrics are the per-class scores of a classification report.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report mirrors a classification report: per-class scores, accuracy and the
// macro and support-weighted averages.
type Report struct {
	Classes  [2]ClassMetrics
	Accuracy float64
	Macro    ClassMetrics
	Weighted ClassMetrics
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ClassificationReport scores both classes from the confusion matrix.
// Undefined ratios are reported as 0.
func ClassificationReport(cm ConfusionMatrix) Report {
	var rep Report
	total := cm.Total()
	for c := 0; c < 2; c++ {
		tp := cm[c][c]
		predicted := cm[0][c] + cm[1][c]
		actual := cm[c][0] + cm[c][1]
		p := ratio(tp, predicted)
		r := ratio(tp, actual)
		rep.Classes[c] = ClassMetrics{Precision: p, Recall: r, F1: f1(p, r), Support: actual}
	}
	rep.Accuracy = ratio(cm.TN()+cm.TP(), total)

	for _, m := range rep.Classes {
		rep.Macro.Precision += m.Precision / 2
		rep.Macro.Recall += m.Recall / 2
		rep.Macro.F1 += m.F1 / 2
		if total > 0 {
			w := float64(m.Support) / float64(total)
			rep.Weighted.Precision += m.Precision * w
			rep.Weighted.Recall += m.Recall * w
			rep.Weighted.F1 += m.F1 * w
		}
	}
	rep.Macro.Support = total
	rep.Weighted.Support = total
	return rep
}

// String renders the report in the familiar column layout.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s  %9s %9s %9s %9s\n\n", "", "precision", "recall", "f1-score", "support")
	for c, m := range r.Classes {
		fmt.Fprintf(&b, "%12d  %9.2f %9.2f %9.2f %9d\n", c, m.Precision, m.Recall, m.F1, m.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s  %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Macro.Support)
	fmt.Fprintf(&b, "%12s  %9.2f %9.2f %9.2f %9d\n", "macro avg", r.Macro.Precision, r.Macro.Recall, r.Macro.F1, r.Macro.Support)
	fmt.Fprintf(&b, "%12s  %9.2f %9.2f %9.2f %9d\n", "weighted avg", r.Weighted.Precision, r.Weighted.Recall, r.Weighted.F1, r.Weighted.Support)
	return b.String()
}
