package mlmodel

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const leafMarker = -1

// tree is a flattened binary regression tree. Node i is a leaf when
// left[i] == leafMarker; otherwise samples with x[feature[i]] <= threshold[i] go left.
type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     []float64
}

func newTree(a treeArtifact, nFeatures int) (*tree, error) {
	n := len(a.ChildrenLeft)
	if n == 0 {
		return nil, invalid("tree has no nodes")
	}
	if len(a.ChildrenRight) != n || len(a.Feature) != n || len(a.Threshold) != n || len(a.Value) != n {
		return nil, invalid("tree arrays have different lengths")
	}

	for i := 0; i < n; i++ {
		l, r := a.ChildrenLeft[i], a.ChildrenRight[i]
		if l == leafMarker || r == leafMarker {
			if l != r {
				return nil, invalid("node %d has exactly one child", i)
			}
			if math.IsNaN(a.Value[i]) || math.IsInf(a.Value[i], 0) {
				return nil, invalid("leaf %d has non-finite value", i)
			}
			continue
		}
		// Children always follow their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return nil, invalid("node %d has out-of-range children (%d, %d)", i, l, r)
		}
		if a.Feature[i] < 0 || a.Feature[i] >= nFeatures {
			return nil, invalid("node %d splits on feature %d of %d", i, a.Feature[i], nFeatures)
		}
		if math.IsNaN(a.Threshold[i]) {
			return nil, invalid("node %d has NaN threshold", i)
		}
	}

	return &tree{
		left:      a.ChildrenLeft,
		right:     a.ChildrenRight,
		feature:   a.Feature,
		threshold: a.Threshold,
		value:     a.Value,
	}, nil
}

func (t *tree) predict(x []float64) float64 {
	node := 0
	for t.left[node] != leafMarker {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.value[node]
}

func (t *tree) depth() int {
	var walk func(node int) int
	walk = func(node int) int {
		if t.left[node] == leafMarker {
			return 0
		}
		l, r := walk(t.left[node]), walk(t.right[node])
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}

// Forest averages the predictions of its trees
type Forest struct {
	info  Info
	trees []*tree
}

// Predict returns the mean leaf value over all trees
func (f *Forest) Predict(features []float64) (float64, error) {
	if err := checkWidth(features, f.info.NumFeatures); err != nil {
		return 0, err
	}

	leaves := make([]float64, len(f.trees))
	for i, t := range f.trees {
		leaves[i] = t.predict(features)
	}
	return stat.Mean(leaves, nil), nil
}

// Info describes the forest
func (f *Forest) Info() Info {
	return f.info
}
