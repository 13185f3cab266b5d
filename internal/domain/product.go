package domain

import (
	"strings"
	"time"
)

// Product is a catalog entry. A product may belong to several categories;
// Available is the stock/admin flag, independent of time-slot gating.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Categories  []CategoryRef `json:"categories"`
	Available   bool          `json:"available"`
	Price       int64         `json:"price"`
	Currency    string        `json:"currency"`
	Unit        string        `json:"unit"`
	Stock       int           `json:"stock"`
	ImageURL    string        `json:"image_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// InAnyCategory reports whether the product belongs to at least one category
// in the given set. A product with no categories (nil or empty) is in none.
func (p Product) InAnyCategory(ids map[string]struct{}) bool {
	for _, c := range p.Categories {
		if _, ok := ids[c.ID]; ok {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether the already-lowercased query is a substring of
// the product's name, description, any tag, or any category name. Missing
// tag or category collections simply never match.
func (p Product) MatchesQuery(query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c.Name), query) {
			return true
		}
	}
	return false
}
