package main

import (
	"time"

	"github.com/matst80/telbridge/internal/registry"
)

// Stats represents current gateway stats for dashboards & API.
type Stats struct {
	Sessions int                `json:"sessions"`
	Total    int64              `json:"total_sessions"`
	Active   []registry.Session `json:"active"`
	Now      string             `json:"now"`
}

func collectStats(store registry.Store) Stats {
	active, total := store.Stats()
	return Stats{
		Sessions: active,
		Total:    total,
		Active:   store.Sessions(),
		Now:      time.Now().UTC().Format(time.RFC3339),
	}
}

// ToTemplateMap returns a map suited for html/template rendering with expected capitalized keys.
func (s Stats) ToTemplateMap() map[string]any {
	return map[string]any{
		"Sessions": s.Sessions,
		"Total":    s.Total,
		"Active":   s.Active,
	}
}
