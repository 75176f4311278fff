package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Skufu/heartrisk/internal/patient"
)

// CatBoost evaluates a CatBoost oblivious-tree ensemble exported with
// save_model(format="json"). Only float features are supported; the
// categorical codes are expected to have been trained as numbers.
// A loaded model is immutable and safe for concurrent use.
type CatBoost struct {
	trees []obliviousTree
	scale float64
	bias  float64
}

type obliviousTree struct {
	features []int // flat feature index per depth
	borders  []float64
	leaves   []float64
}

type catBoostFile struct {
	FeaturesInfo struct {
		FloatFeatures []struct {
			FeatureIndex     int    `json:"feature_index"`
			FlatFeatureIndex int    `json:"flat_feature_index"`
			FeatureID        string `json:"feature_id"`
		} `json:"float_features"`
		CategoricalFeatures []json.RawMessage `json:"categorical_features"`
	} `json:"features_info"`
	ObliviousTrees []struct {
		LeafValues []float64 `json:"leaf_values"`
		Splits     []struct {
			Border            float64 `json:"border"`
			FloatFeatureIndex int     `json:"float_feature_index"`
			SplitType         string  `json:"split_type"`
		} `json:"splits"`
	} `json:"oblivious_trees"`
	ScaleAndBias []json.RawMessage `json:"scale_and_bias"`
}

// LoadCatBoost reads and checks the model file at path.
func LoadCatBoost(path string) (*CatBoost, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelNotFoundError{Path: path, Err: err}
	}
	m, err := ParseCatBoost(raw)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// ParseCatBoost builds a model from the JSON export.
func ParseCatBoost(raw []byte) (*CatBoost, error) {
	var f catBoostFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catboost json: %w", err)
	}
	if len(f.FeaturesInfo.CategoricalFeatures) > 0 {
		return nil, errors.New("categorical features are not supported")
	}
	if len(f.ObliviousTrees) == 0 {
		return nil, errors.New("model has no trees")
	}

	flat := make(map[int]int, len(f.FeaturesInfo.FloatFeatures))
	for _, ff := range f.FeaturesInfo.FloatFeatures {
		if ff.FlatFeatureIndex < 0 || ff.FlatFeatureIndex >= patient.NumFeatures {
			return nil, fmt.Errorf("feature index %d outside the %d-column schema", ff.FlatFeatureIndex, patient.NumFeatures)
		}
		if ff.FeatureID != "" && ff.FeatureID != patient.FeatureOrder[ff.FlatFeatureIndex] {
			return nil, fmt.Errorf("feature %d is %q, expected %q",
				ff.FlatFeatureIndex, ff.FeatureID, patient.FeatureOrder[ff.FlatFeatureIndex])
		}
		flat[ff.FeatureIndex] = ff.FlatFeatureIndex
	}

	m := &CatBoost{scale: 1, trees: make([]obliviousTree, 0, len(f.ObliviousTrees))}
	for i, t := range f.ObliviousTrees {
		if want := 1 << len(t.Splits); len(t.LeafValues) != want {
			return nil, fmt.Errorf("tree %d: %d leaf values for depth %d", i, len(t.LeafValues), len(t.Splits))
		}
		tree := obliviousTree{
			features: make([]int, len(t.Splits)),
			borders:  make([]float64, len(t.Splits)),
			leaves:   t.LeafValues,
		}
		for d, s := range t.Splits {
			if s.SplitType != "" && s.SplitType != "FloatFeature" {
				return nil, fmt.Errorf("tree %d: unsupported split type %q", i, s.SplitType)
			}
			idx, ok := flat[s.FloatFeatureIndex]
			if !ok {
				return nil, fmt.Errorf("tree %d: unknown float feature %d", i, s.FloatFeatureIndex)
			}
			tree.features[d] = idx
			tree.borders[d] = s.Border
		}
		m.trees = append(m.trees, tree)
	}

	if err := m.parseScaleAndBias(f.ScaleAndBias); err != nil {
		return nil, err
	}
	return m, nil
}

// scale_and_bias is [scale, bias] in older exports and [scale, [bias]] in
// newer ones.
func (m *CatBoost) parseScaleAndBias(parts []json.RawMessage) error {
	if len(parts) == 0 {
		return nil
	}
	if err := json.Unmarshal(parts[0], &m.scale); err != nil {
		return fmt.Errorf("decode scale: %w", err)
	}
	if len(parts) < 2 {
		return nil
	}
	if err := json.Unmarshal(parts[1], &m.bias); err == nil {
		return nil
	}
	var biases []float64
	if err := json.Unmarshal(parts[1], &biases); err != nil {
		return fmt.Errorf("decode bias: %w", err)
	}
	if len(biases) > 1 {
		return fmt.Errorf("expected a single bias, got %d", len(biases))
	}
	if len(biases) == 1 {
		m.bias = biases[0]
	}
	return nil
}

// Raw returns the ensemble's log-odds for features.
func (m *CatBoost) Raw(features []float64) float64 {
	sum := 0.0
	for _, t := range m.trees {
		leaf := 0
		for d, idx := range t.features {
			if features[idx] > t.borders[d] {
				leaf |= 1 << d
			}
		}
		sum += t.leaves[leaf]
	}
	return m.scale*sum + m.bias
}

func (m *CatBoost) PredictProba(ctx context.Context, features []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(features) != patient.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", patient.NumFeatures, len(features))
	}
	return 1 / (1 + math.Exp(-m.Raw(features))), nil
}
