package site

import (
	"encoding/json"
	"fmt"
)

func ParseConfig(b []byte) (SiteConfig, error) {
	var cfg SiteConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse site config: %w", err)
	}
	return cfg, nil
}

func ParseOpenings(b []byte) (OpeningsData, error) {
	var o OpeningsData
	if err := json.Unmarshal(b, &o); err != nil {
		return OpeningsData{}, fmt.Errorf("parse openings: %w", err)
	}
	return o, nil
}

func ParseContent(b []byte) (ContentData, error) {
	var c ContentData
	if err := json.Unmarshal(b, &c); err != nil {
		return ContentData{}, fmt.Errorf("parse content: %w", err)
	}
	return c, nil
}
