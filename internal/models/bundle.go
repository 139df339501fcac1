package models

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// Artifact file names, looked up in the embedded defaults or a model directory.
const (
	WeekModelFile    = "week_model.json"
	SessionModelFile = "session_model.json"
	RiskModelFile    = "risk_model.json"
)

//go:embed artifacts/*.json
var embeddedArtifacts embed.FS

// Bundle holds the three read-only models. It is built once and shared.
type Bundle struct {
	Week    ClusterModel
	Session ClusterModel
	Risk    RiskModel
}

// Default returns the bundle shipped with the binary.
func Default() (*Bundle, error) {
	sub, err := fs.Sub(embeddedArtifacts, "artifacts")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// Load reads the artifacts from dir, or the embedded ones when dir is empty.
func Load(dir string) (*Bundle, error) {
	if dir == "" {
		return Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("model directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("model directory %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads and validates the artifacts found at the root of fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	var b Bundle
	if err := readArtifact(fsys, WeekModelFile, &b.Week); err != nil {
		return nil, err
	}
	if err := readArtifact(fsys, SessionModelFile, &b.Session); err != nil {
		return nil, err
	}
	if err := readArtifact(fsys, RiskModelFile, &b.Risk); err != nil {
		return nil, err
	}

	if err := b.Week.validate(WeekModelFile); err != nil {
		return nil, err
	}
	if err := b.Session.validate(SessionModelFile); err != nil {
		return nil, err
	}
	if err := b.Risk.validate(RiskModelFile); err != nil {
		return nil, err
	}
	return &b, nil
}

func readArtifact(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
