package mlmodel

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"github.com/richxcame/delivery-demand/pkg/storage"
	"go.uber.org/zap"
)

// FormatVersion is the artifact layout this package reads
const FormatVersion = 1

type artifact struct {
	FormatVersion int            `json:"format_version"`
	Kind          Kind           `json:"kind"`
	ModelVersion  string         `json:"model_version"`
	NFeatures     int            `json:"n_features"`
	FeatureNames  []string       `json:"feature_names"`
	Trees         []treeArtifact `json:"trees"`
	Coefficients  []float64      `json:"coefficients"`
	Intercept     float64        `json:"intercept"`
}

type treeArtifact struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// Load reads the artifact at path. When featureNames is non-nil the artifact must
// have exactly that many features and, if it records names, the same names in order.
func Load(path string, featureNames []string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, featureNames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info := m.Info()
	logger.Info("Model artifact loaded",
		zap.String("path", path),
		zap.String("kind", string(info.Kind)),
		zap.String("version", info.Version),
		zap.Int("n_features", info.NumFeatures),
		zap.Int("trees", info.Trees),
	)
	return m, nil
}

// Decode parses and checks an artifact
func Decode(r io.Reader, featureNames []string) (Model, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if a.FormatVersion != FormatVersion {
		return nil, invalid("format_version %d is not supported", a.FormatVersion)
	}
	if a.NFeatures <= 0 {
		return nil, invalid("n_features must be positive")
	}
	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != a.NFeatures {
		return nil, invalid("%d feature names for %d features", len(a.FeatureNames), a.NFeatures)
	}
	if featureNames != nil {
		if a.NFeatures != len(featureNames) {
			return nil, invalid("model expects %d features, encoder produces %d", a.NFeatures, len(featureNames))
		}
		for i, name := range a.FeatureNames {
			if name != featureNames[i] {
				return nil, invalid("feature %d is %q in the model but %q in the encoder", i, name, featureNames[i])
			}
		}
	}

	info := Info{
		Kind:         a.Kind,
		Version:      a.ModelVersion,
		NumFeatures:  a.NFeatures,
		FeatureNames: a.FeatureNames,
	}

	switch a.Kind {
	case KindRandomForest:
		if len(a.Trees) == 0 {
			return nil, invalid("random_forest has no trees")
		}
		trees := make([]*tree, len(a.Trees))
		for i, ta := range a.Trees {
			t, err := newTree(ta, a.NFeatures)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			trees[i] = t
			if d := t.depth(); d > info.MaxDepth {
				info.MaxDepth = d
			}
		}
		info.Trees = len(trees)
		return &Forest{info: info, trees: trees}, nil
	case KindLinear:
		return newLinear(info, a.Coefficients, a.Intercept)
	default:
		return nil, invalid("unknown kind %q", a.Kind)
	}
}

// Fetch copies the object under key from store to dest. The file is written to a
// temporary name in the same directory and renamed, so readers never see a partial file.
func Fetch(ctx context.Context, store storage.Storage, key, dest string) error {
	ok, err := store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check model artifact %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("model artifact %s: %w", key, storage.ErrNotFound)
	}

	body, err := store.Download(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move model artifact into place: %w", err)
	}

	logger.Info("Model artifact fetched", zap.String("key", key), zap.String("dest", dest), zap.Int64("bytes", n))
	return nil
}
