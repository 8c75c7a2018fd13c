package ensemble

import (
	"math"
	"math/rand"
)

// Node is a single split or leaf in a regression tree. Fields are exported
// so a trained tree survives gob serialization.
type Node struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Tree is a CART regression tree grown on a bootstrap sample.
type Tree struct {
	Root *Node
}

// Predict walks the tree for one feature row.
func (t *Tree) Predict(features []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

// growTree fits a regression tree on the rows selected by idx, splitting
// greedily on the candidate feature/threshold pair with the largest sum of
// squared error reduction.
func growTree(x [][]float64, y []float64, idx []int, cfg Config, rng *rand.Rand, depth int) *Node {
	if len(idx) == 0 {
		return &Node{Leaf: true}
	}
	if depth >= cfg.MaxDepth || len(idx) < 2*cfg.MinSamplesLeaf || constant(y, idx) {
		return &Node{Leaf: true, Value: meanAt(y, idx)}
	}

	feature, threshold, ok := bestSplit(x, y, idx, cfg, rng)
	if !ok {
		return &Node{Leaf: true, Value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.MinSamplesLeaf || len(right) < cfg.MinSamplesLeaf {
		return &Node{Leaf: true, Value: meanAt(y, idx)}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, cfg, rng, depth+1),
		Right:     growTree(x, y, right, cfg, rng, depth+1),
	}
}

// bestSplit scans a random sqrt-sized feature subset for the threshold that
// minimizes the weighted SSE of the two children.
func bestSplit(x [][]float64, y []float64, idx []int, cfg Config, rng *rand.Rand) (int, float64, bool) {
	featureCount := len(x[idx[0]])
	candidates := sampleFeatures(featureCount, rng)

	bestFeature := -1
	bestThreshold := 0.0
	bestScore := math.Inf(1)

	for _, f := range candidates {
		threshold, score, ok := bestThresholdFor(x, y, idx, f, cfg.MinSamplesLeaf)
		if ok && score < bestScore {
			bestFeature = f
			bestThreshold = threshold
			bestScore = score
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// bestThresholdFor finds the minimum-SSE threshold for one feature using a
// sorted sweep with prefix sums.
func bestThresholdFor(x [][]float64, y []float64, idx []int, feature, minLeaf int) (float64, float64, bool) {
	n := len(idx)
	order := make([]int, n)
	copy(order, idx)
	insertionSortByFeature(x, order, feature)

	totalSum := 0.0
	totalSq := 0.0
	for _, i := range order {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}

	leftSum := 0.0
	leftSq := 0.0
	bestScore := math.Inf(1)
	bestThreshold := 0.0
	found := false

	for k := 0; k < n-1; k++ {
		i := order[k]
		leftSum += y[i]
		leftSq += y[i] * y[i]

		// Cannot split between identical feature values
		if x[order[k]][feature] == x[order[k+1]][feature] {
			continue
		}

		leftCount := k + 1
		rightCount := n - leftCount
		if leftCount < minLeaf || rightCount < minLeaf {
			continue
		}

		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		score := sse(leftSq, leftSum, leftCount) + sse(rightSq, rightSum, rightCount)
		if score < bestScore {
			bestScore = score
			bestThreshold = (x[order[k]][feature] + x[order[k+1]][feature]) / 2
			found = true
		}
	}

	return bestThreshold, bestScore, found
}

// sse computes sum((y - mean)^2) from the running sums.
func sse(sumSq, sum float64, count int) float64 {
	n := float64(count)
	return sumSq - sum*sum/n
}

func sampleFeatures(featureCount int, rng *rand.Rand) []int {
	k := int(math.Ceil(math.Sqrt(float64(featureCount))))
	perm := rng.Perm(featureCount)
	return perm[:k]
}

// insertionSortByFeature sorts row indices by one feature column. Training
// sets here are small enough that the simple sort wins on allocation.
func insertionSortByFeature(x [][]float64, order []int, feature int) {
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && x[order[j]][feature] < x[order[j-1]][feature] {
			order[j], order[j-1] = order[j-1], order[j]
			j--
		}
	}
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func constant(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
