// Package models defines the catalog record types and their display tables.
package models

import (
	"strconv"
	"time"
)

// Category classifies what a pattern produces.
type Category string

const (
	CategoryAmigurumi  Category = "amigurumi"
	CategoryAccessoire Category = "accessoire"
	CategoryVetement   Category = "vetement"
	CategoryDeco       Category = "deco"
	CategoryAutre      Category = "autre"
)

// Level is the skill level a pattern targets.
type Level string

const (
	LevelDebutant      Level = "debutant"
	LevelIntermediaire Level = "intermediaire"
	LevelAvance        Level = "avance"
)

// Patron is one craft-pattern record. The ID is assigned once at creation
// and never changes; records are always replaced whole, never patched.
//
// Image and PDF hold raw bytes locally. At the sync boundary they travel as
// portable data-URI strings (see internal/media).
type Patron struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Level       Level     `json:"level"`
	HookSize    string    `json:"hookSize"`
	YarnAmount  int       `json:"yarnAmount"`
	Materials   []string  `json:"materials"`
	Description string    `json:"description"`
	Image       []byte    `json:"-"`
	PDF         []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewID returns a new record identifier derived from the given instant.
// Identifiers are decimal Unix-millisecond strings, so they sort by creation
// time and stay stable across export/import.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// CategoryLabels maps categories to their display labels.
var CategoryLabels = map[Category]string{
	CategoryAmigurumi:  "🧸 Amigurumi",
	CategoryAccessoire: "👜 Accessoires",
	CategoryVetement:   "👗 Vêtements",
	CategoryDeco:       "🏠 Décoration",
	CategoryAutre:      "🎨 Autre",
}

// LevelLabels maps skill levels to their display labels.
var LevelLabels = map[Level]string{
	LevelDebutant:      "🟢 Débutant",
	LevelIntermediaire: "🟡 Intermédiaire",
	LevelAvance:        "🔴 Avancé",
}

// LevelColors maps skill levels to the color names the UI uses for badges.
var LevelColors = map[Level]string{
	LevelDebutant:      "green",
	LevelIntermediaire: "yellow",
	LevelAvance:        "red",
}
