package detection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is one independent trigger of the synthetic generator.
type Category struct {
	Name               string   `yaml:"name"`
	TriggerProbability float64  `yaml:"trigger_probability"`
	ConfidenceMin      float64  `yaml:"confidence_min"`
	ConfidenceMax      float64  `yaml:"confidence_max"`
	Labels             []string `yaml:"labels"`
	BoxMin             int      `yaml:"box_min"`
	BoxMax             int      `yaml:"box_max"`
}

func (c Category) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("category without name")
	}
	if c.TriggerProbability < 0 || c.TriggerProbability > 1 {
		return fmt.Errorf("category %s: trigger probability %.2f not in [0,1]", c.Name, c.TriggerProbability)
	}
	if c.ConfidenceMin < 0 || c.ConfidenceMax > 1 || c.ConfidenceMin > c.ConfidenceMax {
		return fmt.Errorf("category %s: bad confidence range [%.2f,%.2f]", c.Name, c.ConfidenceMin, c.ConfidenceMax)
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("category %s: no labels", c.Name)
	}
	if c.BoxMin <= 0 || c.BoxMin > c.BoxMax {
		return fmt.Errorf("category %s: bad box range [%d,%d]", c.Name, c.BoxMin, c.BoxMax)
	}
	return nil
}

func DefaultLiveCategories() []Category {
	return []Category{
		{
			Name:               "person-activity",
			TriggerProbability: 0.3,
			ConfidenceMin:      0.6,
			ConfidenceMax:      1.0,
			Labels:             []string{"Person Detected", "Normal Activity"},
			BoxMin:             80,
			BoxMax:             200,
		},
		{
			Name:               "suspicious-behavior",
			TriggerProbability: 0.2,
			ConfidenceMin:      0.6,
			ConfidenceMax:      1.0,
			Labels:             []string{"Suspicious Activity", "Suspicious Loitering"},
			BoxMin:             80,
			BoxMax:             200,
		},
		{
			Name:               "object-of-interest",
			TriggerProbability: 0.1,
			ConfidenceMin:      0.6,
			ConfidenceMax:      0.9,
			Labels:             []string{"Unattended Object"},
			BoxMin:             80,
			BoxMax:             200,
		},
	}
}

func DefaultUploadCategories() []Category {
	return []Category{
		{
			Name:               "upload-frame",
			TriggerProbability: 0.3,
			ConfidenceMin:      0.6,
			ConfidenceMax:      0.9,
			Labels: []string{
				"Person Detected",
				"Suspicious Activity",
				"Unattended Object",
				"Aggressive Behavior",
				"Trespassing",
			},
			BoxMin: 50,
			BoxMax: 150,
		},
	}
}

type CategoryConfig struct {
	Live   []Category `yaml:"live"`
	Upload []Category `yaml:"upload"`
}

func DefaultCategoryConfig() *CategoryConfig {
	return &CategoryConfig{
		Live:   DefaultLiveCategories(),
		Upload: DefaultUploadCategories(),
	}
}

// LoadCategoryConfig reads category overrides from a YAML file. An empty path yields the
// built-in defaults, and a section missing from the file keeps its defaults.
func LoadCategoryConfig(path string) (*CategoryConfig, error) {
	cfg := DefaultCategoryConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detection config: %w", err)
	}

	var file CategoryConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse detection config %s: %w", path, err)
	}
	if len(file.Live) > 0 {
		cfg.Live = file.Live
	}
	if len(file.Upload) > 0 {
		cfg.Upload = file.Upload
	}

	for _, c := range append(append([]Category{}, cfg.Live...), cfg.Upload...) {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
