package ml

import (
	"errors"
	"fmt"
	"sort"
)

// gainEpsilon 小於此值的不純度下降視為沒有改善
const gainEpsilon = 1e-12

// TreeOptions 決策樹參數
type TreeOptions struct {
	MaxDepth       int // 最大分裂深度
	MinSamplesLeaf int // 每個葉節點最少樣本數
}

// DecisionTree 以 Gini 不純度分裂的 CART 分類樹
type DecisionTree struct {
	opts     TreeOptions
	root     *treeNode
	features int
}

type treeNode struct {
	leaf      bool
	label     string
	feature   int
	threshold float64
	left      *treeNode // x[feature] < threshold
	right     *treeNode
}

// NewDecisionTree 創建未訓練的決策樹
func NewDecisionTree(opts TreeOptions) *DecisionTree {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if opts.MinSamplesLeaf <= 0 {
		opts.MinSamplesLeaf = 1
	}
	return &DecisionTree{opts: opts}
}

// Train 以訓練資料建樹
func (t *DecisionTree) Train(X [][]int, y []string) error {
	features, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}
	for i, label := range y {
		if label == "" {
			return fmt.Errorf("empty label at row %d", i)
		}
	}

	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}
	t.features = features
	t.root = t.build(X, y, indices, 0)
	return nil
}

// Predict 走訪決策樹直到葉節點
func (t *DecisionTree) Predict(x []int) (string, error) {
	if t.root == nil {
		return "", ErrNotTrained
	}
	if len(x) != t.features {
		return "", fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), t.features)
	}
	node := t.root
	for !node.leaf {
		if float64(x[node.feature]) < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
		if node == nil {
			return "", errors.New("decision tree is malformed")
		}
	}
	return node.label, nil
}

// Depth 回傳樹的分裂深度
func (t *DecisionTree) Depth() int {
	return depth(t.root)
}

func depth(n *treeNode) int {
	if n == nil || n.leaf {
		return 0
	}
	l, r := depth(n.left), depth(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func (t *DecisionTree) build(X [][]int, y []string, indices []int, level int) *treeNode {
	label, pure := majority(y, indices)
	if pure || level >= t.opts.MaxDepth || len(indices) < 2*t.opts.MinSamplesLeaf {
		return &treeNode{leaf: true, label: label}
	}

	parent := gini(y, indices)
	bestGain := 0.0
	bestFeature := -1
	var bestThreshold float64
	var bestLeft, bestRight []int

	for f := 0; f < t.features; f++ {
		for _, threshold := range candidateThresholds(X, indices, f) {
			left, right := partition(X, indices, f, threshold)
			if len(left) < t.opts.MinSamplesLeaf || len(right) < t.opts.MinSamplesLeaf {
				continue
			}
			n := float64(len(indices))
			weighted := float64(len(left))/n*gini(y, left) + float64(len(right))/n*gini(y, right)
			gain := parent - weighted
			// 嚴格大於：同分時保留先找到的特徵與門檻
			if gain > bestGain+gainEpsilon {
				bestGain = gain
				bestFeature = f
				bestThreshold = threshold
				bestLeft, bestRight = left, right
			}
		}
	}

	if bestFeature < 0 {
		return &treeNode{leaf: true, label: label}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      t.build(X, y, bestLeft, level+1),
		right:     t.build(X, y, bestRight, level+1),
	}
}

// candidateThresholds 相鄰相異值的中點
func candidateThresholds(X [][]int, indices []int, f int) []float64 {
	seen := make(map[int]struct{})
	var values []int
	for _, i := range indices {
		v := X[i][f]
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Ints(values)
	out := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		out = append(out, float64(values[i-1]+values[i])/2)
	}
	return out
}

func partition(X [][]int, indices []int, f int, threshold float64) (left, right []int) {
	for _, i := range indices {
		if float64(X[i][f]) < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func gini(y []string, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, i := range indices {
		counts[y[i]]++
	}
	n := float64(len(indices))
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / n
		impurity -= p * p
	}
	return impurity
}

// majority 多數標籤，同票時取先出現者
func majority(y []string, indices []int) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, i := range indices {
		if _, ok := counts[y[i]]; !ok {
			order = append(order, y[i])
		}
		counts[y[i]]++
	}
	best := ""
	for _, label := range order {
		if best == "" || counts[label] > counts[best] {
			best = label
		}
	}
	return best, len(order) <= 1
}
